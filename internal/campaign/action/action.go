// Package action coordinates the mutating contract calls: contribute,
// withdraw, and create. Each (kind, campaign) pair carries its own lifecycle
// state so independent actions never block each other.
package action

// Kind identifies the type of mutating action.
type Kind string

const (
	KindContribute Kind = "contribute"
	KindWithdraw   Kind = "withdraw"
	KindCreate     Kind = "create"
)

// Key identifies one independently tracked action instance.
// Campaign creation uses a singleton key with no campaign id.
type Key struct {
	Kind       Kind
	CampaignID uint64
}

// ContributeKey is the action key for contributing to a campaign.
func ContributeKey(campaignID uint64) Key {
	return Key{Kind: KindContribute, CampaignID: campaignID}
}

// WithdrawKey is the action key for withdrawing a campaign's funds.
func WithdrawKey(campaignID uint64) Key {
	return Key{Kind: KindWithdraw, CampaignID: campaignID}
}

// CreateKey is the singleton action key for campaign creation.
func CreateKey() Key {
	return Key{Kind: KindCreate}
}

// State is the lifecycle state of an action instance.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the observable state of one action instance. Reason is set only
// when State is StateFailed.
type Status struct {
	State  State
	Reason error
}
