package close

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/logger"
	"github.com/tendeko/closer/src/utils/model"

	"github.com/sirupsen/logrus"
)

const contractSystemPrompt = `You are a procurement officer drafting a supply contract.
Write a short, formal contract for the awarded tender below.
Cover the parties, the subject of the contract, the contract value and the delivery obligations.
Respond with plain text only.`

// Awarder selects the winning bid and drafts the award contract.
type Awarder struct {
	completer Completer
	log       *logrus.Entry
}

func NewAwarder(config *config.Config) (self *Awarder) {
	self = new(Awarder)
	self.log = logger.NewSublogger("awarder")
	return
}

func (self *Awarder) WithCompleter(completer Completer) *Awarder {
	self.completer = completer
	return self
}

// SelectWinner picks the highest scoring bid. Ties go to the bid that was
// submitted first.
func (self *Awarder) SelectWinner(evaluated []*EvaluatedBid) (winner *EvaluatedBid) {
	for _, candidate := range evaluated {
		if winner == nil {
			winner = candidate
			continue
		}
		if candidate.Evaluation.TotalScore > winner.Evaluation.TotalScore {
			winner = candidate
			continue
		}
		if candidate.Evaluation.TotalScore == winner.Evaluation.TotalScore &&
			candidate.Bid.CreatedAt.Before(winner.Bid.CreatedAt) {
			winner = candidate
		}
	}
	return
}

// DraftContract produces the contract text for the winning bid. When the
// oracle cannot deliver, a plain template is used instead so the award is
// never blocked on contract prose.
func (self *Awarder) DraftContract(ctx context.Context, tender *model.Tender, winner *EvaluatedBid) (text string) {
	payload, err := buildContractPayload(tender, winner)
	if err == nil {
		text, err = self.completer.Complete(ctx, contractSystemPrompt, payload, false)
		if err == nil {
			return
		}
	}

	self.log.WithError(err).
		WithField("tenderId", tender.ID).
		Warn("Oracle contract draft failed, using template")

	return fallbackContract(tender, winner)
}

type contractPayload struct {
	TenderTitle       string  `json:"tender_title"`
	TenderDescription string  `json:"tender_description"`
	ProcuringEntityId string  `json:"procuring_entity_id"`
	SupplierId        string  `json:"supplier_id"`
	SupplierName      string  `json:"supplier_name,omitempty"`
	ContractValue     float64 `json:"contract_value"`
	ValueCurrency     string  `json:"value_currency"`
	ClosingDate       string  `json:"closing_date"`
	EvaluationSummary string  `json:"evaluation_summary"`
	BidItems          []struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
		TotalPrice  float64 `json:"total_price"`
	} `json:"bid_items"`
}

func buildContractPayload(tender *model.Tender, winner *EvaluatedBid) (out string, err error) {
	payload := contractPayload{
		TenderTitle:       tender.Title,
		TenderDescription: tender.Description,
		ProcuringEntityId: tender.ProcuringEntityID,
		SupplierId:        winner.Bid.SupplierID,
		ContractValue:     winner.Bid.BidAmount,
		ValueCurrency:     tender.ValueCurrency,
		ClosingDate:       tender.ClosingDate.UTC().Format(time.RFC3339),
		EvaluationSummary: winner.Evaluation.Summary,
	}
	if winner.Bid.Supplier != nil {
		payload.SupplierName = winner.Bid.Supplier.LegalName
	}
	for _, item := range winner.Bid.Items {
		payload.BidItems = append(payload.BidItems, struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			UnitPrice   float64 `json:"unit_price"`
			TotalPrice  float64 `json:"total_price"`
		}{item.Description, item.Quantity, item.UnitPrice, item.TotalPrice})
	}

	data, err := json.Marshal(&payload)
	if err != nil {
		return
	}
	out = string(data)
	return
}

func fallbackContract(tender *model.Tender, winner *EvaluatedBid) string {
	supplier := winner.Bid.SupplierID
	if winner.Bid.Supplier != nil && winner.Bid.Supplier.LegalName != "" {
		supplier = winner.Bid.Supplier.LegalName
	}

	return fmt.Sprintf(
		"SUPPLY CONTRACT\n\n"+
			"Tender: %s\n"+
			"Procuring entity: %s\n"+
			"Supplier: %s\n"+
			"Contract value: %.2f %s\n\n"+
			"The supplier agrees to deliver the goods and services described in the tender "+
			"in accordance with the submitted bid and the applicable procurement regulations.",
		tender.Title,
		tender.ProcuringEntityID,
		supplier,
		winner.Bid.BidAmount,
		tender.ValueCurrency,
	)
}
