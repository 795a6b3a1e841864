package model

import (
	"gorm.io/gorm"

	"github.com/rs/xid"
)

const (
	TableSupplier        = "suppliers"
	TableProcuringEntity = "procuring_entities"
)

// NewID returns a sortable unique identifier for new rows
func NewID() string {
	return xid.New().String()
}

type Supplier struct {
	ID                 string `gorm:"primaryKey"`
	LegalName          string
	VendorNumber       string
	TaxClearanceNumber string
}

func (self *Supplier) TableName() string {
	return TableSupplier
}

func (self *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}

type ProcuringEntity struct {
	ID               string `gorm:"primaryKey"`
	ContactName      string
	ContactEmail     string
	ContactTelephone string
}

func (self *ProcuringEntity) TableName() string {
	return TableProcuringEntity
}

func (self *ProcuringEntity) BeforeCreate(tx *gorm.DB) (err error) {
	if self.ID == "" {
		self.ID = NewID()
	}
	return
}
