package close

import (
	"context"
	"testing"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/model"
	monitor_closer "github.com/tendeko/closer/src/utils/monitoring/closer"
	"github.com/tendeko/closer/src/utils/oracle"

	"github.com/stretchr/testify/suite"
)

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

type completion struct {
	out string
	err error
}

type fakeCompleter struct {
	queue []completion
	calls int
}

func (self *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	self.calls++
	if len(self.queue) == 0 {
		return "", oracle.ErrConnectivity
	}
	next := self.queue[0]
	self.queue = self.queue[1:]
	return next.out, next.err
}

type EvaluatorSuite struct {
	suite.Suite

	config  *config.Config
	monitor *monitor_closer.Monitor
}

func (self *EvaluatorSuite) SetupTest() {
	self.config = config.Default()
	self.monitor = monitor_closer.NewMonitor()
}

func (self *EvaluatorSuite) evaluator(completer Completer) *Evaluator {
	return NewEvaluator(self.config).
		WithCompleter(completer).
		WithMonitor(self.monitor)
}

func (self *EvaluatorSuite) tender(bids ...model.Bid) *model.Tender {
	return &model.Tender{
		ID:            "tender-1",
		Title:         "Office furniture",
		ValueAmount:   50000,
		ValueCurrency: "EUR",
		ClosingDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Bids:          bids,
	}
}

const validResponse = `{"total_score": 82.5, "price_score": 90, "technical_score": 80, "compliance_score": 72, "summary": "Strong offer", "flags": []}`

func (self *EvaluatorSuite) TestParseValid() {
	evaluation, err := parseEvaluation(validResponse)
	self.NoError(err)
	self.Equal(82.5, evaluation.TotalScore)
	self.Equal(90.0, evaluation.PriceScore)
	self.Equal(80.0, evaluation.TechnicalScore)
	self.Equal(72.0, evaluation.ComplianceScore)
	self.Equal("Strong offer", evaluation.Summary)
	self.Empty(evaluation.Flags)
}

func (self *EvaluatorSuite) TestParseRejectsMissingFlags() {
	cases := []string{
		`{"total_score": 50, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok"}`,
		`{"total_score": 50, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok", "flags": null}`,
	}

	for _, raw := range cases {
		_, err := parseEvaluation(raw)
		self.ErrorIs(err, ErrSchemaViolation, raw)
	}
}

func (self *EvaluatorSuite) TestParseRejectsMalformed() {
	cases := []string{
		`not json`,
		`{"price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok"}`,
		`{"total_score": 101, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok"}`,
		`{"total_score": -1, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok"}`,
		`{"total_score": "high", "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "ok"}`,
		`{"total_score": 50, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": ""}`,
		`{"total_score": 50, "price_score": 50, "technical_score": 50, "compliance_score": 50, "summary": "   "}`,
	}

	for _, raw := range cases {
		_, err := parseEvaluation(raw)
		self.ErrorIs(err, ErrSchemaViolation, raw)
	}
}

func (self *EvaluatorSuite) TestEvaluateAllBids() {
	tender := self.tender(
		model.Bid{ID: "bid-1", BidAmount: 45000},
		model.Bid{ID: "bid-2", BidAmount: 48000},
	)

	completer := &fakeCompleter{queue: []completion{
		{out: validResponse},
		{out: validResponse},
	}}

	evaluated, complete, err := self.evaluator(completer).Evaluate(context.Background(), tender)
	self.NoError(err)
	self.True(complete)
	self.Len(evaluated, 2)
	self.Equal("bid-1", evaluated[0].Evaluation.BidID)
	self.Equal("bid-2", evaluated[1].Evaluation.BidID)
	self.True(evaluated[0].IsNew)
	self.Equal(2, completer.calls)
}

func (self *EvaluatorSuite) TestEvaluateTenderWithoutBids() {
	tender := self.tender()
	completer := &fakeCompleter{}

	evaluated, complete, err := self.evaluator(completer).Evaluate(context.Background(), tender)
	self.NoError(err)
	self.True(complete)
	self.Empty(evaluated)
	self.Equal(0, completer.calls)
}

func (self *EvaluatorSuite) TestEvaluateReusesPersistedEvaluations() {
	existing := &model.BidEvaluation{BidID: "bid-1", TotalScore: 70}
	tender := self.tender(
		model.Bid{ID: "bid-1", Evaluation: existing},
		model.Bid{ID: "bid-2"},
	)

	completer := &fakeCompleter{queue: []completion{{out: validResponse}}}

	evaluated, complete, err := self.evaluator(completer).Evaluate(context.Background(), tender)
	self.NoError(err)
	self.True(complete)
	self.Len(evaluated, 2)
	self.False(evaluated[0].IsNew)
	self.Same(existing, evaluated[0].Evaluation)
	self.Equal(1, completer.calls)
}

func (self *EvaluatorSuite) TestEvaluateSkipsFailingBid() {
	tender := self.tender(
		model.Bid{ID: "bid-1"},
		model.Bid{ID: "bid-2"},
	)

	completer := &fakeCompleter{queue: []completion{
		{err: oracle.ErrConnectivity},
		{out: validResponse},
	}}

	evaluated, complete, err := self.evaluator(completer).Evaluate(context.Background(), tender)
	self.NoError(err)
	self.False(complete)
	self.Len(evaluated, 1)
	self.Equal("bid-2", evaluated[0].Evaluation.BidID)
	self.Equal(uint64(1), self.monitor.Report.Closer.Errors.OracleConnectivityError.Load())
}

func (self *EvaluatorSuite) TestEvaluateSchemaViolationContained() {
	tender := self.tender(
		model.Bid{ID: "bid-1"},
		model.Bid{ID: "bid-2"},
	)

	completer := &fakeCompleter{queue: []completion{
		{out: `{"summary": "missing scores"}`},
		{out: validResponse},
	}}

	evaluated, complete, err := self.evaluator(completer).Evaluate(context.Background(), tender)
	self.NoError(err)
	self.False(complete)
	self.Len(evaluated, 1)
	self.Equal(uint64(1), self.monitor.Report.Closer.Errors.OracleSchemaError.Load())
}

func (self *EvaluatorSuite) TestEvaluateStopsOnCancelledContext() {
	tender := self.tender(model.Bid{ID: "bid-1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completer := &fakeCompleter{queue: []completion{{out: validResponse}}}

	_, _, err := self.evaluator(completer).Evaluate(ctx, tender)
	self.ErrorIs(err, context.Canceled)
	self.Equal(0, completer.calls)
}

func (self *EvaluatorSuite) TestPayloadContainsTenderAndBid() {
	tender := self.tender(model.Bid{ID: "bid-1", BidAmount: 45000})
	tender.Items = []model.Item{{Description: "Desks", Quantity: 10, UnitName: "pcs"}}
	tender.Bids[0].Items = []model.BidItem{{Description: "Desks", Quantity: 10, UnitPrice: 4500, TotalPrice: 45000}}

	payload, err := buildEvaluationPayload(tender, &tender.Bids[0])
	self.NoError(err)
	self.Contains(payload, `"title":"Office furniture"`)
	self.Contains(payload, `"bid_amount":45000`)
	self.Contains(payload, `"unit_price":4500`)
}
