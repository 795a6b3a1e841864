package model

import (
	"time"

	"gorm.io/gorm"
)

const TableTenderViolation = "tender_violations"

// Title shared by all tamper violations, used for deduplication
const ViolationTitlePotentialTamper = "Potential Tamper"

type ViolationSeverity string

const (
	ViolationSeverityLow    ViolationSeverity = "low"
	ViolationSeverityMedium ViolationSeverity = "medium"
	ViolationSeverityHigh   ViolationSeverity = "high"
)

type TenderViolation struct {
	ID           string `gorm:"primaryKey"`
	TenderID     string `gorm:"index"`
	Title        string
	Description  string
	Severity     ViolationSeverity
	DateDetected time.Time
	ReportedAt   time.Time `gorm:"autoCreateTime"`
}

func (self *TenderViolation) TableName() string {
	return TableTenderViolation
}

func (self *TenderViolation) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
