package model

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const TableBidEvaluation = "bid_evaluations"

// BidEvaluation stores one oracle scoring of one bid. Scores are
// oracle-computed and engine-validated, all within [0,100].
type BidEvaluation struct {
	ID              string `gorm:"primaryKey"`
	BidID           string `gorm:"uniqueIndex"`
	TotalScore      float64
	PriceScore      float64
	TechnicalScore  float64
	ComplianceScore float64
	Summary         string         `gorm:"column:evaluation_summary;type:text"`
	Flags           pq.StringArray `gorm:"type:text[]"`

	// Raw oracle response kept for audits
	RawResponse pgtype.JSONB `gorm:"type:jsonb"`

	EvaluationDate time.Time `gorm:"autoCreateTime"`
}

func (self *BidEvaluation) TableName() string {
	return TableBidEvaluation
}

func (self *BidEvaluation) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
