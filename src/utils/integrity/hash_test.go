package integrity

import (
	"testing"
	"time"

	"github.com/tendeko/closer/src/utils/model"

	"github.com/stretchr/testify/suite"
)

func TestHashSuite(t *testing.T) {
	suite.Run(t, new(HashSuite))
}

type HashSuite struct {
	suite.Suite
}

func (self *HashSuite) tender() *model.Tender {
	return &model.Tender{
		ID:                "tender-1",
		Title:             "Road resurfacing",
		Description:       "Resurfacing of the N1 highway",
		ValueAmount:       250000,
		ValueCurrency:     "EUR",
		ClosingDate:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ProcuringEntityID: "entity-1",
	}
}

func (self *HashSuite) TestDeterministic() {
	first, err := TenderHash(self.tender())
	self.NoError(err)

	second, err := TenderHash(self.tender())
	self.NoError(err)

	self.Equal(first, second)
	self.Len(first, 64)
}

func (self *HashSuite) TestSensitiveToFields() {
	base, err := TenderHash(self.tender())
	self.NoError(err)

	modified := self.tender()
	modified.Title = "Road resurfacing phase 2"
	changed, err := TenderHash(modified)
	self.NoError(err)
	self.NotEqual(base, changed)

	modified = self.tender()
	modified.ValueAmount = 250001
	changed, err = TenderHash(modified)
	self.NoError(err)
	self.NotEqual(base, changed)
}

func (self *HashSuite) TestTimezoneNormalized() {
	base, err := TenderHash(self.tender())
	self.NoError(err)

	shifted := self.tender()
	shifted.ClosingDate = shifted.ClosingDate.In(time.FixedZone("CET", 3600))
	same, err := TenderHash(shifted)
	self.NoError(err)
	self.Equal(base, same)
}
