package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tendeko/closer/src/utils/ledger"
	"github.com/tendeko/closer/src/utils/model"
	"github.com/tendeko/closer/src/verify"

	"github.com/spf13/cobra"
)

var verifyTenderId string

func init() {
	verifyCmd.Flags().StringVar(&verifyTenderId, "tender", "", "id of the tender to verify")
	verifyCmd.MarkFlagRequired("tender")
	RootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a tender against its anchored ledger record",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		db, err := model.NewConnection(ctx, conf, "verify")
		if err != nil {
			return
		}

		gateway, err := ledger.NewGateway(conf)
		if err != nil {
			return
		}

		result, err := verify.NewVerifier(conf, gateway).VerifyById(ctx, db, verifyTenderId)
		if err != nil {
			if errors.Is(err, verify.ErrTenderNotFound) {
				return fmt.Errorf("tender %s not found", verifyTenderId)
			}
			return
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return
		}
		fmt.Println(string(out))

		return
	},
}
