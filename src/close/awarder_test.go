package close

import (
	"context"
	"testing"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/oracle"

	"github.com/stretchr/testify/suite"
)

func TestAwarderSuite(t *testing.T) {
	suite.Run(t, new(AwarderSuite))
}

type AwarderSuite struct {
	suite.Suite

	config *config.Config
}

func (self *AwarderSuite) SetupTest() {
	self.config = config.Default()
}

func evaluatedBid(id string, score float64, createdAt time.Time) *EvaluatedBid {
	return &EvaluatedBid{
		Bid:        &model.Bid{ID: id, SupplierID: "supplier-" + id, BidAmount: 1000, CreatedAt: createdAt},
		Evaluation: &model.BidEvaluation{BidID: id, TotalScore: score},
	}
}

func (self *AwarderSuite) TestSelectWinnerHighestScore() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluated := []*EvaluatedBid{
		evaluatedBid("bid-1", 70, base),
		evaluatedBid("bid-2", 85, base.Add(time.Hour)),
		evaluatedBid("bid-3", 60, base.Add(2*time.Hour)),
	}

	winner := NewAwarder(self.config).SelectWinner(evaluated)
	self.Equal("bid-2", winner.Bid.ID)
}

func (self *AwarderSuite) TestSelectWinnerTieGoesToEarliestBid() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluated := []*EvaluatedBid{
		evaluatedBid("bid-late", 85, base.Add(time.Hour)),
		evaluatedBid("bid-early", 85, base),
	}

	winner := NewAwarder(self.config).SelectWinner(evaluated)
	self.Equal("bid-early", winner.Bid.ID)
}

func (self *AwarderSuite) TestSelectWinnerSingleBid() {
	evaluated := []*EvaluatedBid{
		evaluatedBid("bid-1", 10, time.Now()),
	}

	winner := NewAwarder(self.config).SelectWinner(evaluated)
	self.Equal("bid-1", winner.Bid.ID)
}

func (self *AwarderSuite) TestSelectWinnerNoBids() {
	winner := NewAwarder(self.config).SelectWinner(nil)
	self.Nil(winner)
}

func (self *AwarderSuite) TestContractPayloadContainsEvaluationAndItems() {
	tender := &model.Tender{ID: "tender-1", Title: "Office furniture", ValueCurrency: "EUR"}
	winner := evaluatedBid("bid-1", 85, time.Now())
	winner.Evaluation.Summary = "Best price, full compliance"
	winner.Bid.Items = []model.BidItem{{Description: "Desks", Quantity: 10, UnitPrice: 4500, TotalPrice: 45000}}

	payload, err := buildContractPayload(tender, winner)
	self.NoError(err)
	self.Contains(payload, `"evaluation_summary":"Best price, full compliance"`)
	self.Contains(payload, `"description":"Desks"`)
	self.Contains(payload, `"unit_price":4500`)
}

func (self *AwarderSuite) TestDraftContractUsesOracle() {
	tender := &model.Tender{ID: "tender-1", Title: "Office furniture", ValueCurrency: "EUR"}
	winner := evaluatedBid("bid-1", 85, time.Now())

	completer := &fakeCompleter{queue: []completion{{out: "CONTRACT between the parties..."}}}

	text := NewAwarder(self.config).
		WithCompleter(completer).
		DraftContract(context.Background(), tender, winner)

	self.Equal("CONTRACT between the parties...", text)
	self.Equal(1, completer.calls)
}

func (self *AwarderSuite) TestDraftContractFallsBackOnOracleFailure() {
	tender := &model.Tender{ID: "tender-1", Title: "Office furniture", ValueCurrency: "EUR", ProcuringEntityID: "entity-1"}
	winner := evaluatedBid("bid-1", 85, time.Now())
	winner.Bid.Supplier = &model.Supplier{LegalName: "Acme Desks Ltd"}

	completer := &fakeCompleter{queue: []completion{{err: oracle.ErrConnectivity}}}

	text := NewAwarder(self.config).
		WithCompleter(completer).
		DraftContract(context.Background(), tender, winner)

	self.Contains(text, "SUPPLY CONTRACT")
	self.Contains(text, "Office furniture")
	self.Contains(text, "Acme Desks Ltd")
}
