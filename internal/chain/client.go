// Package chain talks JSON-RPC to an Ethereum node hosting the Crowdfunding
// contract. It covers contract reads, transaction submission through the
// node-managed wallet, and confirmation waits.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// defaultConfirmInterval is the receipt polling cadence when none is configured.
const defaultConfirmInterval = 500 * time.Millisecond

// Config defines the inputs for the chain client. The contract address and
// endpoint are injected here; nothing in this package reads globals.
type Config struct {
	RPCEndpoint     string
	ContractAddress common.Address
	ConfirmInterval time.Duration
}

// Client is the Crowdfunding contract client.
type Client struct {
	rpc             *rpc.Client
	eth             *ethclient.Client
	contract        common.Address
	contractABI     abi.ABI
	confirmInterval time.Duration

	mu      sync.RWMutex
	account common.Address
	hasAcct bool
}

// Dial connects to the node and prepares the contract client.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	contractABI, err := CrowdfundingABI()
	if err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialContext(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCEndpoint, err)
	}

	interval := cfg.ConfirmInterval
	if interval <= 0 {
		interval = defaultConfirmInterval
	}

	return &Client{
		rpc:             rpcClient,
		eth:             ethclient.NewClient(rpcClient),
		contract:        cfg.ContractAddress,
		contractABI:     contractABI,
		confirmInterval: interval,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// CampaignCount reads the total number of campaigns ever created.
func (c *Client) CampaignCount(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, methodCampaignCount)
	if err != nil {
		return 0, err
	}
	values, err := c.contractABI.Unpack(methodCampaignCount, out)
	if err != nil {
		return 0, fmt.Errorf("unpack campaign count: %w", err)
	}
	count, ok := values[0].(*big.Int)
	if !ok || !count.IsUint64() {
		return 0, fmt.Errorf("campaign count out of range: %v", values[0])
	}
	return count.Uint64(), nil
}

// CampaignAt reads the raw campaign record at the given index.
func (c *Client) CampaignAt(ctx context.Context, index uint64) (domain.RawRecord, error) {
	out, err := c.call(ctx, methodCampaignAt, new(big.Int).SetUint64(index))
	if err != nil {
		return domain.RawRecord{}, err
	}
	return decodeCampaignRecord(c.contractABI, out)
}

// SubmitContribution sends a contribute transaction carrying value wei.
func (c *Client) SubmitContribution(ctx context.Context, campaignID uint64, value *big.Int) (PendingTx, error) {
	return c.submit(ctx, value, methodContribute, new(big.Int).SetUint64(campaignID))
}

// SubmitWithdraw sends a withdrawFunds transaction.
func (c *Client) SubmitWithdraw(ctx context.Context, campaignID uint64) (PendingTx, error) {
	return c.submit(ctx, nil, methodWithdrawFunds, new(big.Int).SetUint64(campaignID))
}

// SubmitCreate sends a createCampaign transaction with the goal in wei.
func (c *Client) SubmitCreate(ctx context.Context, goal *big.Int) (PendingTx, error) {
	return c.submit(ctx, nil, methodCreateCampaign, goal)
}

func (c *Client) call(ctx context.Context, method string, args ...any) ([]byte, error) {
	data, err := c.contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

// sendTxArgs is the eth_sendTransaction parameter object. Signing stays with
// the node's wallet, mirroring how a browser wallet holds the key.
type sendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Value *hexutil.Big    `json:"value,omitempty"`
}

func (c *Client) submit(ctx context.Context, value *big.Int, method string, args ...any) (PendingTx, error) {
	from, ok := c.Account()
	if !ok {
		return nil, apperrors.New(apperrors.CodeWalletUnavailable, "no wallet account connected")
	}

	data, err := c.contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	txArgs := sendTxArgs{From: from, To: &c.contract, Data: data}
	if value != nil {
		txArgs.Value = (*hexutil.Big)(value)
	}

	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", txArgs); err != nil {
		return nil, Classify(err)
	}

	replay := ethereum.CallMsg{From: from, To: &c.contract, Data: data}
	if value != nil {
		replay.Value = new(big.Int).Set(value)
	}
	return &pendingTx{
		hash:      txHash,
		interval:  c.confirmInterval,
		receiptFn: c.eth.TransactionReceipt,
		replayFn:  c.eth.CallContract,
		replayMsg: replay,
	}, nil
}
