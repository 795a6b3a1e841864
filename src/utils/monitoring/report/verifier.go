package report

import (
	"go.uber.org/atomic"
)

type VerifierErrors struct {
	LedgerReadError   atomic.Uint64 `json:"ledger_read_error"`
	DbViolationError  atomic.Uint64 `json:"db_violation_error"`
	TenderNotAnchored atomic.Uint64 `json:"tender_not_anchored"`
}

type VerifierState struct {
	TendersVerified    atomic.Uint64 `json:"tenders_verified"`
	TendersTampered    atomic.Uint64 `json:"tenders_tampered"`
	ViolationsRecorded atomic.Uint64 `json:"violations_recorded"`
	CacheHits          atomic.Uint64 `json:"cache_hits"`
}

type VerifierReport struct {
	State  VerifierState  `json:"state"`
	Errors VerifierErrors `json:"errors"`
}
