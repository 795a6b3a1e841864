package close

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/logger"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/monitoring"
	"github.com/tendeko/closer/src/utils/oracle"

	"github.com/jackc/pgtype"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Oracle response does not satisfy the evaluation schema
var ErrSchemaViolation = errors.New("evaluation schema violation")

const evaluationSystemPrompt = `You are a procurement bid evaluation engine.
Score the submitted bid against the tender using this weighting:
price competitiveness 40%, technical merit 40%, compliance 20%.
Respond with a single JSON object and nothing else, using exactly these keys:
{"total_score": <0-100>, "price_score": <0-100>, "technical_score": <0-100>, "compliance_score": <0-100>, "summary": "<short justification>", "flags": ["<optional concern>"]}`

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (out string, err error)
}

// EvaluatedBid pairs a bid with its evaluation. IsNew is false when the
// evaluation was already persisted by an earlier run.
type EvaluatedBid struct {
	Bid        *model.Bid
	Evaluation *model.BidEvaluation
	IsNew      bool
}

// Evaluator scores bids through the oracle. Bids that already carry a
// persisted evaluation are never re-scored.
type Evaluator struct {
	completer Completer
	monitor   monitoring.Monitor
	log       *logrus.Entry
}

func NewEvaluator(config *config.Config) (self *Evaluator) {
	self = new(Evaluator)
	self.log = logger.NewSublogger("evaluator")
	return
}

func (self *Evaluator) WithCompleter(completer Completer) *Evaluator {
	self.completer = completer
	return self
}

func (self *Evaluator) WithMonitor(monitor monitoring.Monitor) *Evaluator {
	self.monitor = monitor
	return self
}

// Evaluate scores every bid of the tender. A bid that cannot be scored is
// skipped and leaves complete false, the remaining bids are still
// processed.
func (self *Evaluator) Evaluate(ctx context.Context, tender *model.Tender) (evaluated []*EvaluatedBid, complete bool, err error) {
	complete = true

	for i := range tender.Bids {
		bid := &tender.Bids[i]

		if bid.Evaluation != nil {
			evaluated = append(evaluated, &EvaluatedBid{Bid: bid, Evaluation: bid.Evaluation})
			self.monitor.GetReport().Closer.State.BidsSkipped.Inc()
			continue
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		evaluation, evalErr := self.evaluateBid(ctx, tender, bid)
		if evalErr != nil {
			self.log.WithError(evalErr).
				WithField("tenderId", tender.ID).
				WithField("bidId", bid.ID).
				Error("Failed to evaluate bid, skipping")

			if errors.Is(evalErr, oracle.ErrConnectivity) {
				self.monitor.GetReport().Closer.Errors.OracleConnectivityError.Inc()
			} else {
				self.monitor.GetReport().Closer.Errors.OracleSchemaError.Inc()
			}

			complete = false
			continue
		}

		evaluated = append(evaluated, &EvaluatedBid{Bid: bid, Evaluation: evaluation, IsNew: true})
		self.monitor.GetReport().Closer.State.BidsEvaluated.Inc()
	}

	return
}

func (self *Evaluator) evaluateBid(ctx context.Context, tender *model.Tender, bid *model.Bid) (evaluation *model.BidEvaluation, err error) {
	payload, err := buildEvaluationPayload(tender, bid)
	if err != nil {
		return
	}

	raw, err := self.completer.Complete(ctx, evaluationSystemPrompt, payload, true)
	if err != nil {
		return
	}

	evaluation, err = parseEvaluation(raw)
	if err != nil {
		return
	}

	evaluation.BidID = bid.ID
	return
}

type evaluationPayload struct {
	Tender struct {
		Title         string    `json:"title"`
		Description   string    `json:"description"`
		ValueAmount   float64   `json:"value_amount"`
		ValueCurrency string    `json:"value_currency"`
		ClosingDate   time.Time `json:"closing_date"`
		Items         []struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			UnitName    string  `json:"unit_name"`
		} `json:"items"`
	} `json:"tender"`
	Bid struct {
		BidAmount float64 `json:"bid_amount"`
		Items     []struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			UnitPrice   float64 `json:"unit_price"`
			TotalPrice  float64 `json:"total_price"`
		} `json:"items"`
		Documents []struct {
			Title        string `json:"title"`
			DocumentType string `json:"document_type"`
		} `json:"documents"`
	} `json:"bid"`
}

func buildEvaluationPayload(tender *model.Tender, bid *model.Bid) (out string, err error) {
	var payload evaluationPayload

	payload.Tender.Title = tender.Title
	payload.Tender.Description = tender.Description
	payload.Tender.ValueAmount = tender.ValueAmount
	payload.Tender.ValueCurrency = tender.ValueCurrency
	payload.Tender.ClosingDate = tender.ClosingDate
	for _, item := range tender.Items {
		payload.Tender.Items = append(payload.Tender.Items, struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			UnitName    string  `json:"unit_name"`
		}{item.Description, item.Quantity, item.UnitName})
	}

	payload.Bid.BidAmount = bid.BidAmount
	for _, item := range bid.Items {
		payload.Bid.Items = append(payload.Bid.Items, struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			UnitPrice   float64 `json:"unit_price"`
			TotalPrice  float64 `json:"total_price"`
		}{item.Description, item.Quantity, item.UnitPrice, item.TotalPrice})
	}
	for _, document := range bid.Documents {
		payload.Bid.Documents = append(payload.Bid.Documents, struct {
			Title        string `json:"title"`
			DocumentType string `json:"document_type"`
		}{document.Title, document.DocumentType})
	}

	data, err := json.Marshal(&payload)
	if err != nil {
		return
	}
	out = string(data)
	return
}

type oracleEvaluation struct {
	TotalScore      *float64  `json:"total_score"`
	PriceScore      *float64  `json:"price_score"`
	TechnicalScore  *float64  `json:"technical_score"`
	ComplianceScore *float64  `json:"compliance_score"`
	Summary         string    `json:"summary"`
	Flags           *[]string `json:"flags"`
}

func parseEvaluation(raw string) (evaluation *model.BidEvaluation, err error) {
	var parsed oracleEvaluation
	err = json.Unmarshal([]byte(raw), &parsed)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		return
	}

	scores := map[string]*float64{
		"total_score":      parsed.TotalScore,
		"price_score":      parsed.PriceScore,
		"technical_score":  parsed.TechnicalScore,
		"compliance_score": parsed.ComplianceScore,
	}
	for name, score := range scores {
		if score == nil {
			err = fmt.Errorf("%w: missing %s", ErrSchemaViolation, name)
			return
		}
		if *score < 0 || *score > 100 {
			err = fmt.Errorf("%w: %s out of range: %f", ErrSchemaViolation, name, *score)
			return
		}
	}

	if strings.TrimSpace(parsed.Summary) == "" {
		err = fmt.Errorf("%w: empty summary", ErrSchemaViolation)
		return
	}

	if parsed.Flags == nil {
		err = fmt.Errorf("%w: missing flags", ErrSchemaViolation)
		return
	}

	var rawResponse pgtype.JSONB
	err = rawResponse.Set(raw)
	if err != nil {
		return
	}

	evaluation = &model.BidEvaluation{
		TotalScore:      *parsed.TotalScore,
		PriceScore:      *parsed.PriceScore,
		TechnicalScore:  *parsed.TechnicalScore,
		ComplianceScore: *parsed.ComplianceScore,
		Summary:         strings.TrimSpace(parsed.Summary),
		Flags:           pq.StringArray(*parsed.Flags),
		RawResponse:     rawResponse,
	}
	return
}
