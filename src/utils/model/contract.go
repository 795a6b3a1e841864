package model

import (
	"time"

	"gorm.io/gorm"
)

const TableContract = "contracts"

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusTerminated ContractStatus = "terminated"
	ContractStatusCompleted  ContractStatus = "completed"
)

// Contract holds the oracle-drafted agreement for an awarded tender.
// The database row is the source of truth, the storage copy is a convenience.
type Contract struct {
	ID            string `gorm:"primaryKey"`
	TenderID      string `gorm:"index"`
	AwardID       string `gorm:"uniqueIndex"`
	SupplierID    string
	ContractText  string `gorm:"type:text"`
	ContractValue float64
	Status        ContractStatus
	ContractDate  time.Time `gorm:"autoCreateTime"`
}

func (self *Contract) TableName() string {
	return TableContract
}

func (self *Contract) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
