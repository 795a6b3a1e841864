package close

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/monitoring"
	"github.com/tendeko/closer/src/utils/storage"
	"github.com/tendeko/closer/src/utils/task"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Closer runs the closure pipeline for one due tender at a time:
// evaluate every bid, pick the winner, persist award and contract in a
// single transaction, then hand anchoring and notifications off.
//
// Oracle calls happen before the transaction is opened, no locks are held
// across network calls.
type Closer struct {
	*task.Task

	db        *gorm.DB
	monitor   monitoring.Monitor
	evaluator *Evaluator
	awarder   *Awarder
	storage   storage.Storage

	input chan string

	// Ledger writes to be performed after commit
	AnchorOutput chan *AnchorJob

	// Published award notifications
	NotificationOutput chan *AwardNotification
}

func NewCloser(config *config.Config) (self *Closer) {
	self = new(Closer)

	self.AnchorOutput = make(chan *AnchorJob, config.Closer.ChannelBufferLength)
	self.NotificationOutput = make(chan *AwardNotification, config.Closer.ChannelBufferLength)

	self.Task = task.NewTask(config, "closer").
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			close(self.AnchorOutput)
			close(self.NotificationOutput)
		})

	return
}

func (self *Closer) WithDB(db *gorm.DB) *Closer {
	self.db = db
	return self
}

func (self *Closer) WithMonitor(monitor monitoring.Monitor) *Closer {
	self.monitor = monitor
	return self
}

func (self *Closer) WithEvaluator(evaluator *Evaluator) *Closer {
	self.evaluator = evaluator
	return self
}

func (self *Closer) WithAwarder(awarder *Awarder) *Closer {
	self.awarder = awarder
	return self
}

func (self *Closer) WithStorage(storage storage.Storage) *Closer {
	self.storage = storage
	return self
}

func (self *Closer) WithInputChannel(input chan string) *Closer {
	self.input = input
	return self
}

func (self *Closer) run() (err error) {
	for id := range self.input {
		self.process(id)
	}
	return nil
}

func (self *Closer) process(id string) {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Closer.ProcessingTimeout)
	defer cancel()

	self.Log.WithField("tenderId", id).Debug("-> Closing tender")
	defer self.Log.WithField("tenderId", id).Debug("<- Closing tender")

	var tender model.Tender
	err := self.db.WithContext(ctx).
		Preload("Items").
		Preload("Bids").
		Preload("Bids.Items").
		Preload("Bids.Documents").
		Preload("Bids.Evaluation").
		Preload("Bids.Supplier").
		Where("evaluated = ?", false).
		First(&tender, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already handled, the daily sweep and the interval poll overlap
			return
		}
		self.Log.WithError(err).WithField("tenderId", id).Error("Failed to load tender")
		self.monitor.GetReport().Closer.Errors.DbDiscoveryError.Inc()
		return
	}

	if len(tender.Bids) == 0 {
		self.Log.WithField("tenderId", id).Info("Tender closed without bids, nothing to award")
		return
	}

	// All oracle calls happen here, outside the transaction
	evaluated, complete, err := self.evaluator.Evaluate(ctx, &tender)
	if err != nil {
		self.Log.WithError(err).WithField("tenderId", id).Error("Evaluation interrupted")
		return
	}

	var winner *EvaluatedBid
	var contractText string
	if complete {
		winner = self.awarder.SelectWinner(evaluated)
		contractText = self.awarder.DraftContract(ctx, &tender, winner)
	}

	var award model.Award
	var contract model.Contract
	var awardCreated bool

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		for _, entry := range evaluated {
			if !entry.IsNew {
				continue
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "bid_id"}},
				DoNothing: true,
			}).Create(entry.Evaluation).Error
			if err != nil {
				return
			}
		}

		if !complete {
			// Partial batch, keep the scores and let the next poll finish the job
			return
		}

		result := tx.Where(model.Award{TenderID: tender.ID}).
			Attrs(model.Award{BidID: winner.Bid.ID, SupplierID: winner.Bid.SupplierID}).
			FirstOrCreate(&award)
		if result.Error != nil {
			return result.Error
		}
		awardCreated = result.RowsAffected > 0

		result = tx.Where(model.Contract{AwardID: award.ID}).
			Attrs(model.Contract{
				TenderID:      tender.ID,
				SupplierID:    award.SupplierID,
				ContractText:  contractText,
				ContractValue: winner.Bid.BidAmount,
				Status:        model.ContractStatusActive,
			}).
			FirstOrCreate(&contract)
		if result.Error != nil {
			return result.Error
		}

		return tx.Model(&model.Tender{}).
			Where("id = ? AND evaluated = ?", tender.ID, false).
			Updates(map[string]interface{}{
				"evaluated": true,
				"status":    model.TenderStatusAwarded,
			}).Error
	})
	if err != nil {
		self.Log.WithError(err).WithField("tenderId", id).Error("Failed to persist closure")
		self.monitor.GetReport().Closer.Errors.DbPersistError.Inc()
		return
	}

	if !complete {
		self.Log.WithField("tenderId", id).
			Warn("Some bids could not be evaluated, tender left open for the next poll")
		return
	}

	if awardCreated {
		self.monitor.GetReport().Closer.State.AwardsCreated.Inc()
		self.monitor.GetReport().Closer.State.ContractsDrafted.Inc()
	}
	self.monitor.GetReport().Closer.State.TendersFinished.Inc()
	self.monitor.GetReport().Closer.State.LastFinishedTimestamp.Store(time.Now().Unix())

	fileUrl := self.archiveContract(&contract)
	self.emitAnchors(&tender, &award, &contract, fileUrl)

	if awardCreated {
		self.notify(&award, &contract)
	}
}

func (self *Closer) archiveContract(contract *model.Contract) (fileUrl string) {
	fileUrl, err := self.storage.Put(fmt.Sprintf("contract_%s.txt", contract.ID), []byte(contract.ContractText))
	if err != nil {
		self.Log.WithError(err).WithField("contractId", contract.ID).Error("Failed to archive contract file")
		self.monitor.GetReport().Closer.Errors.ContractStorageError.Inc()
		return ""
	}
	return
}

func (self *Closer) emitAnchors(tender *model.Tender, award *model.Award, contract *model.Contract, fileUrl string) {
	if self.Config.Ledger.ContractAddress == "" {
		// Anchoring disabled, nobody consumes the channel
		return
	}

	jobs := []*AnchorJob{
		{
			Kind:       AnchorAward,
			TenderId:   tender.ID,
			AwardId:    award.ID,
			BidId:      award.BidID,
			SupplierId: award.SupplierID,
			Amount:     contract.ContractValue,
		},
		{
			Kind:       AnchorContract,
			TenderId:   tender.ID,
			AwardId:    award.ID,
			ContractId: contract.ID,
			Amount:     contract.ContractValue,
			FileUrl:    fileUrl,
		},
	}

	for _, job := range jobs {
		select {
		case <-self.Ctx.Done():
			return
		case self.AnchorOutput <- job:
		}
	}
}

func (self *Closer) notify(award *model.Award, contract *model.Contract) {
	if !self.Config.Redis.Enabled {
		return
	}

	notification := &AwardNotification{
		TenderId:   award.TenderID,
		AwardId:    award.ID,
		BidId:      award.BidID,
		SupplierId: award.SupplierID,
		Amount:     contract.ContractValue,
		AwardDate:  award.AwardDate,
	}

	select {
	case <-self.Ctx.Done():
	case self.NotificationOutput <- notification:
	}
}
