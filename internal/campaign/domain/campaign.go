// Package domain defines the canonical campaign record and the decoding of
// raw on-chain records into it.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Campaign is the canonical view of one on-chain fundraising campaign.
//
// IDs are assigned by creation order, 0-based and contiguous. GoalAmount and
// FundsRaised are wei amounts. Deadline is a Unix timestamp in seconds.
type Campaign struct {
	ID           uint64
	Creator      common.Address
	GoalAmount   *big.Int
	Deadline     uint64
	FundsRaised  *big.Int
	IsSuccessful bool
	IsWithdrawn  bool
	IsCanceled   bool
}

// Closed reports whether the campaign reached a terminal state.
// Withdrawal and cancellation are mutually exclusive and each is final.
func (c Campaign) Closed() bool {
	return c.IsWithdrawn || c.IsCanceled
}

// AcceptsContributions reports whether the contribute form should be offered.
// Contributions stop once the campaign is closed or already fully funded.
func (c Campaign) AcceptsContributions() bool {
	return !c.Closed() && !c.IsSuccessful
}

// Withdrawable reports whether the creator can still collect the funds.
func (c Campaign) Withdrawable() bool {
	return c.IsSuccessful && !c.IsWithdrawn
}

// Clone returns a deep copy so snapshot holders never alias live big.Int values.
func (c Campaign) Clone() Campaign {
	out := c
	if c.GoalAmount != nil {
		out.GoalAmount = new(big.Int).Set(c.GoalAmount)
	}
	if c.FundsRaised != nil {
		out.FundsRaised = new(big.Int).Set(c.FundsRaised)
	}
	return out
}
