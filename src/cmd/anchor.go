package cmd

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/tendeko/closer/src/utils/integrity"
	"github.com/tendeko/closer/src/utils/ledger"
	"github.com/tendeko/closer/src/utils/model"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var anchorTenderId string

func init() {
	anchorCmd.Flags().StringVar(&anchorTenderId, "tender", "", "id of the tender to anchor")
	anchorCmd.MarkFlagRequired("tender")
	RootCmd.AddCommand(anchorCmd)
}

var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Record a tender's fingerprint on the ledger",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		db, err := model.NewConnection(ctx, conf, "anchor")
		if err != nil {
			return
		}

		var tender model.Tender
		err = db.WithContext(ctx).First(&tender, "id = ?", anchorTenderId).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("tender %s not found", anchorTenderId)
			}
			return
		}

		hash, err := integrity.TenderHash(&tender)
		if err != nil {
			return
		}

		gateway, err := ledger.NewGateway(conf)
		if err != nil {
			return
		}

		err = gateway.CreateTender(ctx,
			tender.ID,
			tender.Title,
			big.NewInt(int64(math.Round(tender.ValueAmount))),
			big.NewInt(tender.ClosingDate.UTC().Unix()),
			tender.ProcuringEntityID,
			hash,
		)
		if err != nil {
			return
		}

		fmt.Printf("Anchored tender %s with hash %s\n", tender.ID, hash)
		return
	},
}
