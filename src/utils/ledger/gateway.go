package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/logger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

var ErrTenderNotFound = errors.New("tender not found on ledger")

// TenderRecord mirrors the on-chain tender entry.
type TenderRecord struct {
	Id                string
	Title             string
	ValueAmount       *big.Int
	ClosingDate       *big.Int
	ProcuringEntityId string
	DataHash          string
	AwardedBidId      string
	ContractId        string
	Exists            bool
}

// Gateway wraps the procurement registry contract.
// Reads go through eth_call, writes are mined transactions.
type Gateway struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	opts     *bind.TransactOpts
	config   *config.Config
	log      *logrus.Entry
}

func NewGateway(config *config.Config) (self *Gateway, err error) {
	self = new(Gateway)
	self.config = config
	self.log = logger.NewSublogger("ledger-gateway")

	self.client, err = ethclient.Dial(config.Ledger.RpcUrl)
	if err != nil {
		self.log.WithError(err).Error("Cannot connect to the ledger node")
		return
	}

	parsed, err := abi.JSON(strings.NewReader(procurementABI))
	if err != nil {
		return
	}

	address := common.HexToAddress(config.Ledger.ContractAddress)
	self.contract = bind.NewBoundContract(address, parsed, self.client, self.client, self.client)

	if config.Ledger.PrivateKey != "" {
		key, keyErr := crypto.HexToECDSA(strings.TrimPrefix(config.Ledger.PrivateKey, "0x"))
		if keyErr != nil {
			err = keyErr
			return
		}
		self.opts, err = bind.NewKeyedTransactorWithChainID(key, big.NewInt(config.Ledger.ChainId))
		if err != nil {
			return
		}
	}

	return
}

func (self *Gateway) GetTender(ctx context.Context, id string) (record *TenderRecord, err error) {
	callCtx, cancel := context.WithTimeout(ctx, self.config.Ledger.CallTimeout)
	defer cancel()

	var out []interface{}
	err = self.contract.Call(&bind.CallOpts{Context: callCtx}, &out, "getTender", id)
	if err != nil {
		return
	}

	record = &TenderRecord{
		Id:                out[0].(string),
		Title:             out[1].(string),
		ValueAmount:       out[2].(*big.Int),
		ClosingDate:       out[3].(*big.Int),
		ProcuringEntityId: out[4].(string),
		DataHash:          out[5].(string),
		AwardedBidId:      out[6].(string),
		ContractId:        out[7].(string),
		Exists:            out[8].(bool),
	}

	if !record.Exists {
		return nil, ErrTenderNotFound
	}
	return
}

func (self *Gateway) CreateTender(ctx context.Context, id, title string, valueAmount, closingDate *big.Int, procuringEntityId, dataHash string) (err error) {
	return self.transact(ctx, "createTender", id, title, valueAmount, closingDate, procuringEntityId, dataHash)
}

func (self *Gateway) RecordAward(ctx context.Context, tenderId, awardId, bidId, supplierId string, amount *big.Int) (err error) {
	return self.transact(ctx, "recordAward", tenderId, awardId, bidId, supplierId, amount)
}

func (self *Gateway) RecordContract(ctx context.Context, tenderId, contractId, awardId string, contractValue *big.Int, fileUrl string) (err error) {
	return self.transact(ctx, "recordContract", tenderId, contractId, awardId, contractValue, fileUrl)
}

func (self *Gateway) transact(ctx context.Context, method string, args ...interface{}) (err error) {
	if self.opts == nil {
		return errors.New("ledger private key not configured")
	}

	opts := *self.opts
	opts.Context = ctx

	tx, err := self.contract.Transact(&opts, method, args...)
	if err != nil {
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, self.config.Ledger.ConfirmationTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, self.client, tx)
	if err != nil {
		return
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		err = fmt.Errorf("transaction %s reverted", tx.Hash())
		self.log.WithError(err).WithField("method", method).Error("Ledger write failed")
		return
	}

	self.log.WithField("method", method).WithField("tx", tx.Hash().Hex()).Debug("Ledger write confirmed")
	return
}
