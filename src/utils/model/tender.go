package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TableTender = "tenders"
	TableItem   = "items"
)

type TenderStatus string

const (
	TenderStatusActive    TenderStatus = "active"
	TenderStatusCancelled TenderStatus = "cancelled"
	TenderStatusAwarded   TenderStatus = "awarded"
	TenderStatusClosed    TenderStatus = "closed"
	TenderStatusCompleted TenderStatus = "completed"
	TenderStatusPending   TenderStatus = "pending"
	TenderStatusOnHold    TenderStatus = "onhold"
)

// Tender is a published procurement request with a closing deadline.
// Core fields are immutable once anchored on the ledger, the closure
// process only ever flips Status and Evaluated.
type Tender struct {
	ID            string `gorm:"primaryKey"`
	Title         string
	Description   string
	ClosingDate   time.Time
	DateCreated   time.Time `gorm:"autoCreateTime"`
	DateModified  time.Time `gorm:"autoUpdateTime"`
	ValueAmount   float64
	ValueCurrency string
	Status        TenderStatus
	Evaluated     bool

	ProcuringEntityID string
	ProcuringEntity   *ProcuringEntity

	Items      []Item            `gorm:"constraint:OnDelete:CASCADE"`
	Bids       []Bid             `gorm:"constraint:OnDelete:CASCADE"`
	Violations []TenderViolation `gorm:"constraint:OnDelete:CASCADE"`
}

func (self *Tender) TableName() string {
	return TableTender
}

func (self *Tender) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}

// Item is a single requested line of a tender
type Item struct {
	ID              string `gorm:"primaryKey"`
	Description     string
	Quantity        float64
	UnitName        string
	UnitCode        string
	DeliveryDateEnd *time.Time

	TenderID string `gorm:"index"`
}

func (self *Item) TableName() string {
	return TableItem
}

func (self *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
