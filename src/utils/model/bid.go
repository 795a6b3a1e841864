package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TableBid         = "bids"
	TableBidItem     = "bid_items"
	TableBidDocument = "bid_documents"
)

// Bid is a supplier's priced response to a tender. Bids are append-only,
// nothing mutates them after submission.
type Bid struct {
	ID        string `gorm:"primaryKey"`
	TenderID  string `gorm:"index"`
	BidAmount float64
	CreatedAt time.Time `gorm:"autoCreateTime"`

	SupplierID string
	Supplier   *Supplier

	Items      []BidItem      `gorm:"constraint:OnDelete:CASCADE"`
	Documents  []BidDocument  `gorm:"constraint:OnDelete:CASCADE"`
	Evaluation *BidEvaluation `gorm:"constraint:OnDelete:CASCADE"`
}

func (self *Bid) TableName() string {
	return TableBid
}

func (self *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}

type BidItem struct {
	ID          string `gorm:"primaryKey"`
	BidID       string `gorm:"index"`
	ItemID      string
	Description string
	Quantity    float64
	UnitName    string
	UnitPrice   float64
	TotalPrice  float64
}

func (self *BidItem) TableName() string {
	return TableBidItem
}

func (self *BidItem) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}

type BidDocument struct {
	ID            string `gorm:"primaryKey"`
	BidID         string `gorm:"index"`
	Title         string
	DocumentType  string
	DatePublished time.Time `gorm:"autoCreateTime"`
	Hash          string
	Url           string
}

func (self *BidDocument) TableName() string {
	return TableBidDocument
}

func (self *BidDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
