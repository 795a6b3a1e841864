package cmd

import (
	"github.com/tendeko/closer/src/close"
	"github.com/tendeko/closer/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(closeCmd)
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Evaluate and award tenders whose bidding window has closed",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := close.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("close-cmd")
		log.Debug("Finished close command")
		return
	},
}
