package report

import (
	"go.uber.org/atomic"
)

type CloserErrors struct {
	DbDiscoveryError        atomic.Uint64 `json:"db_discovery_error"`
	DbPersistError          atomic.Uint64 `json:"db_persist_error"`
	OracleConnectivityError atomic.Uint64 `json:"oracle_connectivity_error"`
	OracleSchemaError       atomic.Uint64 `json:"oracle_schema_error"`
	LedgerAnchorError       atomic.Uint64 `json:"ledger_anchor_error"`
	ContractStorageError    atomic.Uint64 `json:"contract_storage_error"`
	AwardPublishError       atomic.Uint64 `json:"award_publish_error"`
}

type CloserState struct {
	TendersDiscovered     atomic.Uint64 `json:"tenders_discovered"`
	TendersFinished       atomic.Uint64 `json:"tenders_finished"`
	BidsEvaluated         atomic.Uint64 `json:"bids_evaluated"`
	BidsSkipped           atomic.Uint64 `json:"bids_skipped"`
	AwardsCreated         atomic.Uint64 `json:"awards_created"`
	ContractsDrafted      atomic.Uint64 `json:"contracts_drafted"`
	AwardsAnchored        atomic.Uint64 `json:"awards_anchored"`
	ContractsAnchored     atomic.Uint64 `json:"contracts_anchored"`
	AwardsPublished       atomic.Uint64 `json:"awards_published"`
	LastFinishedTimestamp atomic.Int64  `json:"last_finished_timestamp"`
}

type CloserReport struct {
	State  CloserState  `json:"state"`
	Errors CloserErrors `json:"errors"`
}
