package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/integrity"
	"github.com/tendeko/closer/src/utils/ledger"
	"github.com/tendeko/closer/src/utils/logger"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/monitoring/report"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrTenderNotFound = errors.New("tender not found")

// TenderFetcher reads anchored tender records.
type TenderFetcher interface {
	GetTender(ctx context.Context, id string) (record *ledger.TenderRecord, err error)
}

// Result of a single integrity check.
type Result struct {
	TenderId     string
	Verified     bool
	LocalHash    string
	AnchoredHash string
}

// Verifier compares the database copy of a tender against its anchored
// fingerprint. Any failure to produce a positive match counts as not
// verified.
type Verifier struct {
	fetcher TenderFetcher
	cache   *cache.Cache
	report  *report.VerifierReport
	log     *logrus.Entry
}

func NewVerifier(config *config.Config, fetcher TenderFetcher) (self *Verifier) {
	self = new(Verifier)
	self.fetcher = fetcher
	self.cache = cache.New(config.Ledger.CacheTTL, 2*config.Ledger.CacheTTL)
	self.report = &report.VerifierReport{}
	self.log = logger.NewSublogger("verifier")
	return
}

// WithReport shares a report instance, e.g. the one exported by the
// monitoring collector.
func (self *Verifier) WithReport(report *report.VerifierReport) *Verifier {
	self.report = report
	return self
}

func (self *Verifier) GetReport() *report.VerifierReport {
	return self.report
}

// Verify checks one tender. It fails closed: when the anchored record
// cannot be fetched the tender is reported as not verified, the fetch
// error is never raised to the caller.
func (self *Verifier) Verify(ctx context.Context, tender *model.Tender) (result *Result, err error) {
	result = &Result{TenderId: tender.ID}

	result.LocalHash, err = integrity.TenderHash(tender)
	if err != nil {
		return
	}

	record, fetchErr := self.fetchTender(ctx, tender.ID)
	if fetchErr != nil {
		self.log.WithError(fetchErr).WithField("tenderId", tender.ID).Warn("Could not fetch anchored tender, treating as unverified")
		if errors.Is(fetchErr, ledger.ErrTenderNotFound) {
			self.report.Errors.TenderNotAnchored.Inc()
		} else {
			self.report.Errors.LedgerReadError.Inc()
		}
		return
	}

	result.AnchoredHash = record.DataHash
	result.Verified = result.AnchoredHash != "" && result.AnchoredHash == result.LocalHash

	switch {
	case result.Verified:
		self.report.State.TendersVerified.Inc()
	case result.AnchoredHash == "":
		self.report.Errors.TenderNotAnchored.Inc()
	default:
		self.report.State.TendersTampered.Inc()
	}
	return
}

func (self *Verifier) fetchTender(ctx context.Context, id string) (record *ledger.TenderRecord, err error) {
	if cached, ok := self.cache.Get(id); ok {
		self.report.State.CacheHits.Inc()
		return cached.(*ledger.TenderRecord), nil
	}

	record, err = self.fetcher.GetTender(ctx, id)
	if err != nil {
		return
	}

	self.cache.SetDefault(id, record)
	return
}

// VerifyById loads the tender from the database, runs the check and
// persists a violation when tampering is detected.
func (self *Verifier) VerifyById(ctx context.Context, db *gorm.DB, id string) (result *Result, err error) {
	var tender model.Tender
	err = db.WithContext(ctx).First(&tender, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrTenderNotFound
		}
		return
	}

	result, err = self.Verify(ctx, &tender)
	if err != nil {
		return
	}

	if !result.Verified {
		err = self.RecordTamperViolation(ctx, db, result)
	}
	return
}

// RecordTamperViolation stores a tamper violation for the tender unless
// one is already on record.
func (self *Verifier) RecordTamperViolation(ctx context.Context, db *gorm.DB, result *Result) (err error) {
	var count int64
	err = db.WithContext(ctx).
		Model(&model.TenderViolation{}).
		Where("tender_id = ? AND title = ?", result.TenderId, model.ViolationTitlePotentialTamper).
		Count(&count).Error
	if err != nil {
		self.report.Errors.DbViolationError.Inc()
		return
	}
	if count > 0 {
		return
	}

	violation := &model.TenderViolation{
		TenderID: result.TenderId,
		Title:    model.ViolationTitlePotentialTamper,
		Description: fmt.Sprintf("Tender data does not match the anchored record. Local hash %s, anchored hash %s.",
			result.LocalHash, result.AnchoredHash),
		Severity:     model.ViolationSeverityHigh,
		DateDetected: time.Now(),
	}

	err = db.WithContext(ctx).Create(violation).Error
	if err != nil {
		self.report.Errors.DbViolationError.Inc()
		return
	}

	self.report.State.ViolationsRecorded.Inc()
	return
}
