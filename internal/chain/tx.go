package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// PendingTx is a submitted transaction awaiting on-chain confirmation.
type PendingTx interface {
	// Hash identifies the transaction.
	Hash() common.Hash
	// Confirm blocks until the transaction is mined, the node reports an
	// error, or ctx is done. There is no internal timeout; the wait ends when
	// the network resolves.
	Confirm(ctx context.Context) error
}

type pendingTx struct {
	hash      common.Hash
	interval  time.Duration
	receiptFn func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	replayFn  func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	replayMsg ethereum.CallMsg
}

func (tx *pendingTx) Hash() common.Hash {
	return tx.hash
}

func (tx *pendingTx) Confirm(ctx context.Context) error {
	ticker := time.NewTicker(tx.interval)
	defer ticker.Stop()

	for {
		receipt, err := tx.receiptFn(ctx, tx.hash)
		switch {
		case errors.Is(err, ethereum.NotFound):
			// Not mined yet; keep polling.
		case err != nil:
			return Classify(err)
		case receipt.Status == types.ReceiptStatusFailed:
			return tx.revertError(ctx, receipt)
		default:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// revertError recovers the revert reason by replaying the call at the block
// the transaction failed in. When the replay yields nothing useful the error
// stays a generic revert.
func (tx *pendingTx) revertError(ctx context.Context, receipt *types.Receipt) error {
	if tx.replayFn != nil {
		if _, err := tx.replayFn(ctx, tx.replayMsg, receipt.BlockNumber); err != nil {
			if classified := Classify(err); apperrors.IsCode(classified, apperrors.CodeTransactionReverted) {
				return classified
			}
		}
	}
	return apperrors.New(apperrors.CodeTransactionReverted, "transaction reverted")
}
