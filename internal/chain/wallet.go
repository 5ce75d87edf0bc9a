package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// Accounts lists the already-authorized wallet accounts. It is read once at
// startup; an empty list means no wallet is connected yet.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, Classify(err)
	}
	return accounts, nil
}

// RequestAccounts asks the wallet to authorize the application. It fails when
// the user rejects the request.
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, Classify(err)
	}
	if len(accounts) == 0 {
		return nil, apperrors.New(apperrors.CodeWalletUnavailable, "wallet returned no accounts")
	}
	return accounts, nil
}

// UseAccount selects the account transactions are sent from.
func (c *Client) UseAccount(account common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
	c.hasAcct = true
}

// Account returns the currently selected wallet account.
func (c *Client) Account() (common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account, c.hasAcct
}
