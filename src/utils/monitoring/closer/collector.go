package monitor_closer

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	TendersDiscovered  *prometheus.Desc
	TendersFinished    *prometheus.Desc
	BidsEvaluated      *prometheus.Desc
	BidsSkipped        *prometheus.Desc
	AwardsCreated      *prometheus.Desc
	ContractsDrafted   *prometheus.Desc
	AwardsAnchored     *prometheus.Desc
	ContractsAnchored  *prometheus.Desc
	AwardsPublished    *prometheus.Desc
	TendersVerified    *prometheus.Desc
	TendersTampered    *prometheus.Desc
	ViolationsRecorded *prometheus.Desc

	DbDiscoveryError        *prometheus.Desc
	DbPersistError          *prometheus.Desc
	OracleConnectivityError *prometheus.Desc
	OracleSchemaError       *prometheus.Desc
	LedgerAnchorError       *prometheus.Desc
	ContractStorageError    *prometheus.Desc
	AwardPublishError       *prometheus.Desc
	LedgerReadError         *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "closer",
	}

	return &Collector{
		TendersDiscovered:  prometheus.NewDesc("tenders_discovered", "", nil, labels),
		TendersFinished:    prometheus.NewDesc("tenders_finished", "", nil, labels),
		BidsEvaluated:      prometheus.NewDesc("bids_evaluated", "", nil, labels),
		BidsSkipped:        prometheus.NewDesc("bids_skipped", "", nil, labels),
		AwardsCreated:      prometheus.NewDesc("awards_created", "", nil, labels),
		ContractsDrafted:   prometheus.NewDesc("contracts_drafted", "", nil, labels),
		AwardsAnchored:     prometheus.NewDesc("awards_anchored", "", nil, labels),
		ContractsAnchored:  prometheus.NewDesc("contracts_anchored", "", nil, labels),
		AwardsPublished:    prometheus.NewDesc("awards_published", "", nil, labels),
		TendersVerified:    prometheus.NewDesc("tenders_verified", "", nil, labels),
		TendersTampered:    prometheus.NewDesc("tenders_tampered", "", nil, labels),
		ViolationsRecorded: prometheus.NewDesc("violations_recorded", "", nil, labels),

		DbDiscoveryError:        prometheus.NewDesc("db_discovery_error", "", nil, labels),
		DbPersistError:          prometheus.NewDesc("db_persist_error", "", nil, labels),
		OracleConnectivityError: prometheus.NewDesc("oracle_connectivity_error", "", nil, labels),
		OracleSchemaError:       prometheus.NewDesc("oracle_schema_error", "", nil, labels),
		LedgerAnchorError:       prometheus.NewDesc("ledger_anchor_error", "", nil, labels),
		ContractStorageError:    prometheus.NewDesc("contract_storage_error", "", nil, labels),
		AwardPublishError:       prometheus.NewDesc("award_publish_error", "", nil, labels),
		LedgerReadError:         prometheus.NewDesc("ledger_read_error", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.TendersDiscovered
	ch <- self.TendersFinished
	ch <- self.BidsEvaluated
	ch <- self.BidsSkipped
	ch <- self.AwardsCreated
	ch <- self.ContractsDrafted
	ch <- self.AwardsAnchored
	ch <- self.ContractsAnchored
	ch <- self.AwardsPublished
	ch <- self.TendersVerified
	ch <- self.TendersTampered
	ch <- self.ViolationsRecorded
	ch <- self.DbDiscoveryError
	ch <- self.DbPersistError
	ch <- self.OracleConnectivityError
	ch <- self.OracleSchemaError
	ch <- self.LedgerAnchorError
	ch <- self.ContractStorageError
	ch <- self.AwardPublishError
	ch <- self.LedgerReadError
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	closer := self.monitor.Report.Closer
	verifier := self.monitor.Report.Verifier

	ch <- prometheus.MustNewConstMetric(self.TendersDiscovered, prometheus.CounterValue, float64(closer.State.TendersDiscovered.Load()))
	ch <- prometheus.MustNewConstMetric(self.TendersFinished, prometheus.CounterValue, float64(closer.State.TendersFinished.Load()))
	ch <- prometheus.MustNewConstMetric(self.BidsEvaluated, prometheus.CounterValue, float64(closer.State.BidsEvaluated.Load()))
	ch <- prometheus.MustNewConstMetric(self.BidsSkipped, prometheus.CounterValue, float64(closer.State.BidsSkipped.Load()))
	ch <- prometheus.MustNewConstMetric(self.AwardsCreated, prometheus.CounterValue, float64(closer.State.AwardsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractsDrafted, prometheus.CounterValue, float64(closer.State.ContractsDrafted.Load()))
	ch <- prometheus.MustNewConstMetric(self.AwardsAnchored, prometheus.CounterValue, float64(closer.State.AwardsAnchored.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractsAnchored, prometheus.CounterValue, float64(closer.State.ContractsAnchored.Load()))
	ch <- prometheus.MustNewConstMetric(self.AwardsPublished, prometheus.CounterValue, float64(closer.State.AwardsPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.TendersVerified, prometheus.CounterValue, float64(verifier.State.TendersVerified.Load()))
	ch <- prometheus.MustNewConstMetric(self.TendersTampered, prometheus.CounterValue, float64(verifier.State.TendersTampered.Load()))
	ch <- prometheus.MustNewConstMetric(self.ViolationsRecorded, prometheus.CounterValue, float64(verifier.State.ViolationsRecorded.Load()))

	ch <- prometheus.MustNewConstMetric(self.DbDiscoveryError, prometheus.CounterValue, float64(closer.Errors.DbDiscoveryError.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbPersistError, prometheus.CounterValue, float64(closer.Errors.DbPersistError.Load()))
	ch <- prometheus.MustNewConstMetric(self.OracleConnectivityError, prometheus.CounterValue, float64(closer.Errors.OracleConnectivityError.Load()))
	ch <- prometheus.MustNewConstMetric(self.OracleSchemaError, prometheus.CounterValue, float64(closer.Errors.OracleSchemaError.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerAnchorError, prometheus.CounterValue, float64(closer.Errors.LedgerAnchorError.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractStorageError, prometheus.CounterValue, float64(closer.Errors.ContractStorageError.Load()))
	ch <- prometheus.MustNewConstMetric(self.AwardPublishError, prometheus.CounterValue, float64(closer.Errors.AwardPublishError.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerReadError, prometheus.CounterValue, float64(verifier.Errors.LedgerReadError.Load()))
}
