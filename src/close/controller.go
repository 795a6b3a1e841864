package close

import (
	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/ledger"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/utils/monitoring"
	monitor_closer "github.com/tendeko/closer/src/utils/monitoring/closer"
	"github.com/tendeko/closer/src/utils/oracle"
	"github.com/tendeko/closer/src/utils/publisher"
	"github.com/tendeko/closer/src/utils/storage"
	"github.com/tendeko/closer/src/utils/task"
)

type Controller struct {
	*task.Task
}

// NewController builds the whole closure pipeline. It is started upon
// calling Controller.Start().
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "close-controller")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "closer")
	if err != nil {
		return
	}

	// Monitoring
	monitor := monitor_closer.NewMonitor()
	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Evaluation oracle
	oracleClient := oracle.NewClient(config)

	// Contract file archive
	contractStorage, err := storage.NewFromConfig(config)
	if err != nil {
		return
	}

	// Discovers due tenders
	poller := NewPoller(config).
		WithDB(db).
		WithMonitor(monitor)

	evaluator := NewEvaluator(config).
		WithCompleter(oracleClient).
		WithMonitor(monitor)

	awarder := NewAwarder(config).
		WithCompleter(oracleClient)

	// Closes tenders one at a time
	closer := NewCloser(config).
		WithDB(db).
		WithMonitor(monitor).
		WithEvaluator(evaluator).
		WithAwarder(awarder).
		WithStorage(contractStorage).
		WithInputChannel(poller.Output)

	// Anchors awards and contracts on the ledger, after commit
	anchorEnabled := config.Ledger.ContractAddress != ""
	var anchorSink *AnchorSink
	if anchorEnabled {
		var gateway *ledger.Gateway
		gateway, err = ledger.NewGateway(config)
		if err != nil {
			return
		}

		anchorSink = NewAnchorSink(config).
			WithInputChannel(closer.AnchorOutput).
			WithAnchorer(gateway).
			WithMonitor(monitor)
	} else {
		self.Log.Warn("Ledger contract address not set, anchoring disabled")
	}

	// Publishes award notifications
	redisPublisher := publisher.NewRedisPublisher[*AwardNotification](config, "award-publisher").
		WithInputChannel(closer.NotificationOutput).
		WithChannelName(config.Redis.ChannelName).
		WithMonitor(monitor)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(poller.Task).
		WithSubtask(closer.Task).
		WithConditionalSubtask(config.Redis.Enabled, redisPublisher.Task)
	if anchorEnabled {
		self.Task.WithSubtask(anchorSink.Task)
	}
	return
}
