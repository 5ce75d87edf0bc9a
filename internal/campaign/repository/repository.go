// Package repository loads the campaign list from the contract and serves
// immutable point-in-time snapshots of it.
package repository

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
	"github.com/zeecrowd/zeecrowd/internal/chain"
	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// Reader is the read side of the contract client.
type Reader interface {
	CampaignCount(ctx context.Context) (uint64, error)
	CampaignAt(ctx context.Context, index uint64) (domain.RawRecord, error)
}

// Repository caches the latest campaign snapshot.
//
// Loads are atomic: either the full ordered list lands or the previous
// snapshot stays. Concurrent refreshes are ordered by a sequence number so a
// late-resolving older load never overwrites a newer snapshot.
type Repository struct {
	reader Reader
	tracer trace.Tracer

	mu       sync.Mutex
	snapshot []domain.Campaign
	nextSeq  uint64
	lastSeq  uint64
}

// New creates a repository over the given contract reader. A nil reader is
// valid and behaves as a permanently empty repository (no wallet connection).
func New(reader Reader) *Repository {
	return &Repository{
		reader: reader,
		tracer: otel.Tracer("campaign/repository"),
	}
}

// LoadAll fetches every campaign by index, in ascending id order.
//
// It fails with REPOSITORY_UNAVAILABLE when no contract connection exists,
// and with FETCH_FAILED when the count read succeeded but an individual fetch
// did not. Partial results are never returned.
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Campaign, error) {
	if r.reader == nil {
		return nil, apperrors.New(apperrors.CodeRepositoryUnavailable, "no contract connection")
	}

	ctx, span := r.tracer.Start(ctx, "repository.LoadAll")
	defer span.End()

	count, err := r.reader.CampaignCount(ctx)
	if err != nil {
		if chain.IsConnectionError(err) {
			return nil, apperrors.Wrap(apperrors.CodeRepositoryUnavailable, "contract unreachable", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeFetchFailed, "read campaign count", err)
	}
	span.SetAttributes(attribute.Int64("campaign.count", int64(count)))

	campaigns := make([]domain.Campaign, 0, count)
	for i := uint64(0); i < count; i++ {
		rec, err := r.reader.CampaignAt(ctx, i)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeFetchFailed, fmt.Sprintf("fetch campaign %d", i), err)
		}
		campaign, err := domain.DecodeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

// Refresh reloads the campaign list and swaps in a new snapshot.
//
// An unavailable repository resolves to an empty snapshot without error;
// the absence of a wallet is an expected pre-condition, not a failure. Fetch
// failures keep the previous snapshot intact and are returned to the caller.
// A refresh that resolves after a newer one already completed is dropped.
func (r *Repository) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	campaigns, err := r.LoadAll(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq <= r.lastSeq {
		// A newer load already resolved; this result is stale either way.
		return nil
	}
	r.lastSeq = seq

	switch {
	case err == nil:
		r.snapshot = campaigns
		return nil
	case apperrors.IsCode(err, apperrors.CodeRepositoryUnavailable):
		r.snapshot = nil
		return nil
	default:
		// Keep the previous snapshot; surface the failure.
		return err
	}
}

// Snapshot returns a deep copy of the current campaign list, ordered by id.
func (r *Repository) Snapshot() []domain.Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Campaign, len(r.snapshot))
	for i, campaign := range r.snapshot {
		out[i] = campaign.Clone()
	}
	return out
}
