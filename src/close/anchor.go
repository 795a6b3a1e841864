package close

import (
	"context"
	"math"
	"math/big"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/monitoring"
	"github.com/tendeko/closer/src/utils/task"
)

type AnchorKind int

const (
	AnchorAward AnchorKind = iota
	AnchorContract
)

// AnchorJob is a pending ledger write. Jobs are emitted after the database
// commit, the ledger never gates the award itself.
type AnchorJob struct {
	Kind AnchorKind

	TenderId   string
	AwardId    string
	BidId      string
	SupplierId string
	Amount     float64

	// Contract anchors only
	ContractId string
	FileUrl    string
}

// Anchorer writes award and contract records to the ledger.
type Anchorer interface {
	RecordAward(ctx context.Context, tenderId, awardId, bidId, supplierId string, amount *big.Int) error
	RecordContract(ctx context.Context, tenderId, contractId, awardId string, contractValue *big.Int, fileUrl string) error
}

// AnchorSink batches ledger writes and retries them with backoff.
type AnchorSink struct {
	*task.Hole[*AnchorJob]

	anchorer Anchorer
	monitor  monitoring.Monitor
}

func NewAnchorSink(config *config.Config) (self *AnchorSink) {
	self = new(AnchorSink)

	self.Hole = task.NewHole[*AnchorJob](config, "anchor-sink").
		WithBatchSize(config.Closer.AnchorBatchSize).
		WithOnFlush(config.Closer.AnchorInterval, self.flush).
		WithBackoff(config.Closer.AnchorBackoffMaxElapsedTime, config.Closer.AnchorBackoffMaxInterval)

	return
}

func (self *AnchorSink) WithInputChannel(input chan *AnchorJob) *AnchorSink {
	self.Hole.WithInputChannel(input)
	return self
}

func (self *AnchorSink) WithAnchorer(anchorer Anchorer) *AnchorSink {
	self.anchorer = anchorer
	return self
}

func (self *AnchorSink) WithMonitor(monitor monitoring.Monitor) *AnchorSink {
	self.monitor = monitor
	return self
}

func (self *AnchorSink) flush(jobs []*AnchorJob) (err error) {
	if len(jobs) == 0 {
		return nil
	}

	self.Log.WithField("len", len(jobs)).Debug("-> Anchoring records on the ledger")
	defer self.Log.WithField("len", len(jobs)).Debug("<- Anchoring records on the ledger")

	for _, job := range jobs {
		amount := big.NewInt(int64(math.Round(job.Amount)))

		switch job.Kind {
		case AnchorAward:
			err = self.anchorer.RecordAward(self.Ctx, job.TenderId, job.AwardId, job.BidId, job.SupplierId, amount)
		case AnchorContract:
			err = self.anchorer.RecordContract(self.Ctx, job.TenderId, job.ContractId, job.AwardId, amount, job.FileUrl)
		}

		if err != nil {
			self.Log.WithError(err).
				WithField("tenderId", job.TenderId).
				Error("Failed to anchor record, retrying")
			self.monitor.GetReport().Closer.Errors.LedgerAnchorError.Inc()
			return err
		}

		switch job.Kind {
		case AnchorAward:
			self.monitor.GetReport().Closer.State.AwardsAnchored.Inc()
		case AnchorContract:
			self.monitor.GetReport().Closer.State.ContractsAnchored.Inc()
		}
	}

	return nil
}
