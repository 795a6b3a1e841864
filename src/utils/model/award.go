package model

import (
	"time"

	"gorm.io/gorm"
)

const TableAward = "awards"

// Award records the decision naming a bid as winner of a tender.
// The unique index on tender_id backs the at-most-one-award invariant.
type Award struct {
	ID         string `gorm:"primaryKey"`
	TenderID   string `gorm:"uniqueIndex"`
	BidID      string
	SupplierID string
	AwardDate  time.Time `gorm:"autoCreateTime"`
}

func (self *Award) TableName() string {
	return TableAward
}

func (self *Award) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
