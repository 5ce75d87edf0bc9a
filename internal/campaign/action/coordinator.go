package action

import (
	"context"
	"math/big"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeecrowd/zeecrowd/internal/chain"
	"github.com/zeecrowd/zeecrowd/internal/chain/wei"
	"github.com/zeecrowd/zeecrowd/internal/notify"
	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// Submitter is the write side of the contract client.
type Submitter interface {
	SubmitContribution(ctx context.Context, campaignID uint64, value *big.Int) (chain.PendingTx, error)
	SubmitWithdraw(ctx context.Context, campaignID uint64) (chain.PendingTx, error)
	SubmitCreate(ctx context.Context, goal *big.Int) (chain.PendingTx, error)
}

// Refresher reloads the campaign snapshot after a successful action.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Coordinator issues mutating contract calls and tracks one lifecycle state
// per action key.
//
// The state map is mutated only at submission and completion points; the
// mutex is never held across a network wait, so a pending withdraw on one
// campaign cannot block a contribute on another.
type Coordinator struct {
	submitter Submitter
	repo      Refresher
	sink      notify.Sink
	tracer    trace.Tracer

	mu     sync.Mutex
	states map[Key]Status
}

// NewCoordinator creates a coordinator over the given collaborators.
func NewCoordinator(submitter Submitter, repo Refresher, sink notify.Sink) *Coordinator {
	return &Coordinator{
		submitter: submitter,
		repo:      repo,
		sink:      sink,
		tracer:    otel.Tracer("campaign/action"),
		states:    make(map[Key]Status),
	}
}

// Contribute validates the decimal amount, submits a contribution carrying
// that value, and waits for confirmation.
//
// Validation failures return immediately and leave the action state
// untouched. A contribution already pending for the same campaign is
// rejected with ACTION_ALREADY_PENDING before any network call.
func (c *Coordinator) Contribute(ctx context.Context, campaignID uint64, amount string) error {
	value, err := wei.Parse(amount)
	if err != nil {
		return err
	}
	return c.run(ctx, ContributeKey(campaignID), "Contribution successful!", func(ctx context.Context) (chain.PendingTx, error) {
		return c.submitter.SubmitContribution(ctx, campaignID, value)
	})
}

// Withdraw submits a withdrawal of the campaign's raised funds. The contract
// enforces that the campaign is successful and not already withdrawn; a
// violation surfaces as a TRANSACTION_REVERTED failure reason.
func (c *Coordinator) Withdraw(ctx context.Context, campaignID uint64) error {
	return c.run(ctx, WithdrawKey(campaignID), "Funds withdrawn successfully!", func(ctx context.Context) (chain.PendingTx, error) {
		return c.submitter.SubmitWithdraw(ctx, campaignID)
	})
}

// Create validates the goal amount and submits a campaign creation under the
// singleton create key. On success the repository refresh makes the new
// campaign appear with the next sequential id.
func (c *Coordinator) Create(ctx context.Context, goalAmount string) error {
	goal, err := wei.Parse(goalAmount)
	if err != nil {
		return err
	}
	return c.run(ctx, CreateKey(), "Campaign created successfully!", func(ctx context.Context) (chain.PendingTx, error) {
		return c.submitter.SubmitCreate(ctx, goal)
	})
}

// Status returns the current state of one action key.
func (c *Coordinator) Status(key Key) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[key]
}

// States returns a copy of the full action-state map.
func (c *Coordinator) States() map[Key]Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Key]Status, len(c.states))
	for key, status := range c.states {
		out[key] = status
	}
	return out
}

func (c *Coordinator) run(ctx context.Context, key Key, successMsg string, submit func(context.Context) (chain.PendingTx, error)) error {
	if err := c.begin(key); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "action."+string(key.Kind),
		trace.WithAttributes(attribute.Int64("campaign.id", int64(key.CampaignID))))
	defer span.End()

	tx, err := submit(ctx)
	if err != nil {
		return c.fail(key, err)
	}

	if err := tx.Confirm(ctx); err != nil {
		return c.fail(key, err)
	}

	c.setState(key, Status{State: StateSucceeded})
	c.sink.Notify(notify.LevelSuccess, successMsg)

	if err := c.repo.Refresh(ctx); err != nil {
		c.sink.Notify(notify.LevelError, apperrors.UserMessage(err))
	}
	return nil
}

// begin transitions the key to pending, rejecting duplicate submissions so a
// double-click never produces two on-chain transactions.
func (c *Coordinator) begin(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[key].State == StatePending {
		return apperrors.New(apperrors.CodeActionAlreadyPending,
			string(key.Kind)+" already pending")
	}
	c.states[key] = Status{State: StatePending}
	return nil
}

// fail classifies the error and resolves the pending key. A wallet rejection
// resets the key to idle so the user can retry immediately; everything else
// lands in failed with the classified reason.
func (c *Coordinator) fail(key Key, err error) error {
	classified := chain.Classify(err)

	if apperrors.IsCode(classified, apperrors.CodeTransactionRejected) {
		c.setState(key, Status{State: StateIdle})
	} else {
		c.setState(key, Status{State: StateFailed, Reason: classified})
	}

	c.sink.Notify(notify.LevelError, apperrors.UserMessage(classified))
	return classified
}

func (c *Coordinator) setState(key Key, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[key] = status
}
