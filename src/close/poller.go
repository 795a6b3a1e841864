package close

import (
	"context"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/monitoring"
	"github.com/tendeko/closer/src/utils/task"

	"gorm.io/gorm"
)

// Periodically gets tenders that are past their closing date and still
// unevaluated. A daily cron sweep runs the same query, both triggers
// funnel into one output channel.
type Poller struct {
	*task.Task

	db      *gorm.DB
	monitor monitoring.Monitor

	// Tender ids to be processed
	Output chan string
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)

	self.Output = make(chan string, config.Closer.ChannelBufferLength)

	self.Task = task.NewTask(config, "poller").
		WithRepeatedSubtaskFunc(config.Closer.PollerInterval, self.handleDue).
		WithCronSubtaskFunc(config.Closer.DailySchedule, self.handleDaily).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Poller) WithDB(db *gorm.DB) *Poller {
	self.db = db
	return self
}

func (self *Poller) WithMonitor(monitor monitoring.Monitor) *Poller {
	self.monitor = monitor
	return self
}

func (self *Poller) handleDaily() (err error) {
	self.Log.Info("Daily closure sweep")

	for {
		repeat, err := self.handleDue()
		if err != nil || !repeat {
			return err
		}
	}
}

func (self *Poller) handleDue() (repeat bool, err error) {
	self.Log.Debug("Checking for due tenders...")
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Closer.PollerTimeout)
	defer cancel()

	var tenderIds []string
	err = self.db.WithContext(ctx).
		Table(model.TableTender).
		Where("closing_date <= ?", time.Now()).
		Where("evaluated = ?", false).
		Where("status = ?", model.TenderStatusActive).
		Order("closing_date ASC").
		Limit(self.Config.Closer.PollerMaxBatchSize).
		Pluck("id", &tenderIds).Error

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			self.Log.WithError(err).Error("Failed to get due tenders")
			self.monitor.GetReport().Closer.Errors.DbDiscoveryError.Inc()
		}
		return
	}

	if len(tenderIds) > 0 {
		self.Log.
			WithField("count", len(tenderIds)).
			Debug("Polled due tenders")
		self.monitor.GetReport().Closer.State.TendersDiscovered.Add(uint64(len(tenderIds)))
	}

	for _, id := range tenderIds {
		select {
		case <-self.Ctx.Done():
			return
		case self.Output <- id:
		}
	}

	if len(tenderIds) != self.Config.Closer.PollerMaxBatchSize {
		return
	}

	repeat = true
	return
}
