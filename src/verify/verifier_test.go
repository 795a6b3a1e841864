package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/integrity"
	"github.com/tendeko/closer/src/utils/ledger"
	"github.com/tendeko/closer/src/utils/model"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

type fakeFetcher struct {
	records map[string]*ledger.TenderRecord
	err     error
	calls   int
}

func (self *fakeFetcher) GetTender(ctx context.Context, id string) (*ledger.TenderRecord, error) {
	self.calls++
	if self.err != nil {
		return nil, self.err
	}
	record, ok := self.records[id]
	if !ok {
		return nil, ledger.ErrTenderNotFound
	}
	return record, nil
}

type VerifierSuite struct {
	suite.Suite

	config *config.Config
}

func (self *VerifierSuite) SetupTest() {
	self.config = config.Default()
}

func (self *VerifierSuite) tender() *model.Tender {
	return &model.Tender{
		ID:                "tender-1",
		Title:             "Fiber network rollout",
		Description:       "Municipal fiber to the home",
		ValueAmount:       1500000,
		ValueCurrency:     "EUR",
		ClosingDate:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		ProcuringEntityID: "entity-9",
	}
}

func (self *VerifierSuite) TestVerifiedWhenHashesMatch() {
	tender := self.tender()
	hash, err := integrity.TenderHash(tender)
	self.NoError(err)

	fetcher := &fakeFetcher{records: map[string]*ledger.TenderRecord{
		tender.ID: {Id: tender.ID, DataHash: hash, Exists: true},
	}}

	verifier := NewVerifier(self.config, fetcher)
	result, err := verifier.Verify(context.Background(), tender)
	self.NoError(err)
	self.True(result.Verified)
	self.Equal(hash, result.LocalHash)
	self.Equal(hash, result.AnchoredHash)
	self.Equal(uint64(1), verifier.GetReport().State.TendersVerified.Load())
}

func (self *VerifierSuite) TestNotVerifiedOnMismatch() {
	tender := self.tender()

	fetcher := &fakeFetcher{records: map[string]*ledger.TenderRecord{
		tender.ID: {Id: tender.ID, DataHash: "deadbeef", Exists: true},
	}}

	verifier := NewVerifier(self.config, fetcher)
	result, err := verifier.Verify(context.Background(), tender)
	self.NoError(err)
	self.False(result.Verified)
	self.Equal(uint64(1), verifier.GetReport().State.TendersTampered.Load())
}

func (self *VerifierSuite) TestFailsClosedOnFetchError() {
	tender := self.tender()
	fetcher := &fakeFetcher{err: errors.New("node unreachable")}

	verifier := NewVerifier(self.config, fetcher)
	result, err := verifier.Verify(context.Background(), tender)
	self.NoError(err)
	self.False(result.Verified)
	self.Equal(uint64(1), verifier.GetReport().Errors.LedgerReadError.Load())
}

func (self *VerifierSuite) TestFailsClosedWhenNotAnchored() {
	tender := self.tender()
	fetcher := &fakeFetcher{records: map[string]*ledger.TenderRecord{}}

	verifier := NewVerifier(self.config, fetcher)
	result, err := verifier.Verify(context.Background(), tender)
	self.NoError(err)
	self.False(result.Verified)
	self.Equal(uint64(1), verifier.GetReport().Errors.TenderNotAnchored.Load())
}

func (self *VerifierSuite) TestEmptyAnchoredHashIsNotVerified() {
	tender := self.tender()

	fetcher := &fakeFetcher{records: map[string]*ledger.TenderRecord{
		tender.ID: {Id: tender.ID, DataHash: "", Exists: true},
	}}

	result, err := NewVerifier(self.config, fetcher).Verify(context.Background(), tender)
	self.NoError(err)
	self.False(result.Verified)
}

func (self *VerifierSuite) TestRecordsCached() {
	tender := self.tender()
	hash, err := integrity.TenderHash(tender)
	self.NoError(err)

	fetcher := &fakeFetcher{records: map[string]*ledger.TenderRecord{
		tender.ID: {Id: tender.ID, DataHash: hash, Exists: true},
	}}

	verifier := NewVerifier(self.config, fetcher)

	_, err = verifier.Verify(context.Background(), tender)
	self.NoError(err)
	_, err = verifier.Verify(context.Background(), tender)
	self.NoError(err)

	self.Equal(1, fetcher.calls)
	self.Equal(uint64(1), verifier.GetReport().State.CacheHits.Load())
}

func (self *VerifierSuite) mockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	self.NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	self.NoError(err)
	return db, mock
}

func (self *VerifierSuite) TestTamperViolationRecorded() {
	db, mock := self.mockDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tender_violations"`).
		WithArgs("tender-1", model.ViolationTitlePotentialTamper).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "tender_violations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	verifier := NewVerifier(self.config, &fakeFetcher{})
	result := &Result{TenderId: "tender-1", LocalHash: "aaaa", AnchoredHash: "bbbb"}

	err := verifier.RecordTamperViolation(context.Background(), db, result)
	self.NoError(err)
	self.NoError(mock.ExpectationsWereMet())
	self.Equal(uint64(1), verifier.GetReport().State.ViolationsRecorded.Load())
}

func (self *VerifierSuite) TestTamperViolationDeduplicated() {
	db, mock := self.mockDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tender_violations"`).
		WithArgs("tender-1", model.ViolationTitlePotentialTamper).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	verifier := NewVerifier(self.config, &fakeFetcher{})
	result := &Result{TenderId: "tender-1", LocalHash: "aaaa", AnchoredHash: "bbbb"}

	err := verifier.RecordTamperViolation(context.Background(), db, result)
	self.NoError(err)
	self.NoError(mock.ExpectationsWereMet())
	self.Equal(uint64(0), verifier.GetReport().State.ViolationsRecorded.Load())
}
