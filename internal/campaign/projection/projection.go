// Package projection derives display-ready view models from campaign records.
// Everything here is pure; no network access and no mutable state.
package projection

import (
	"math"
	"math/big"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
	"github.com/zeecrowd/zeecrowd/internal/chain/wei"
)

// Status labels, in precedence order. Cancellation wins over success even when
// both flags are set.
const (
	LabelCanceled   = "Canceled"
	LabelSuccessful = "Successful"
	LabelOngoing    = "Ongoing"
)

const deadlineLayout = "Jan 2, 2006 15:04 MST"

// deadlineUnknown renders in place of a timestamp the time package cannot
// represent.
const deadlineUnknown = "Unknown"

// ViewModel carries the rendered fields for one campaign card.
type ViewModel struct {
	ID              uint64
	Creator         string
	Goal            string
	Raised          string
	Deadline        string
	ProgressPercent float64
	ProgressLabel   string
	StatusLabel     string
	CanContribute   bool
	CanWithdraw     bool
}

// Projector renders campaigns for one locale and time zone.
type Projector struct {
	printer *message.Printer
	loc     *time.Location
}

// New creates a projector for the given BCP 47 locale tag. An unparseable tag
// falls back to English. A nil location renders deadlines in UTC.
func New(locale string, loc *time.Location) *Projector {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Projector{
		printer: message.NewPrinter(tag),
		loc:     loc,
	}
}

// Project computes the view model for one campaign.
func (p *Projector) Project(c domain.Campaign) ViewModel {
	percent := progressPercent(c.FundsRaised, c.GoalAmount)
	return ViewModel{
		ID:              c.ID,
		Creator:         c.Creator.Hex(),
		Goal:            wei.Format(c.GoalAmount),
		Raised:          wei.Format(c.FundsRaised),
		Deadline:        p.formatDeadline(c.Deadline),
		ProgressPercent: percent,
		ProgressLabel:   p.printer.Sprintf("%.2f%%", percent),
		StatusLabel:     statusLabel(c),
		CanContribute:   c.AcceptsContributions(),
		CanWithdraw:     c.Withdrawable(),
	}
}

// ProjectAll maps a snapshot to view models, preserving order.
func (p *Projector) ProjectAll(campaigns []domain.Campaign) []ViewModel {
	out := make([]ViewModel, len(campaigns))
	for i, c := range campaigns {
		out[i] = p.Project(c)
	}
	return out
}

// formatDeadline renders a Unix timestamp in the projector's time zone. A
// deadline past the int64 range would wrap in the conversion, so it renders as
// unknown instead.
func (p *Projector) formatDeadline(deadline uint64) string {
	if deadline > math.MaxInt64 {
		return deadlineUnknown
	}
	return time.Unix(int64(deadline), 0).In(p.loc).Format(deadlineLayout)
}

// progressPercent computes raised/goal as a percentage clamped to [0, 100].
// A zero or missing goal is defined as 0% rather than a division error.
func progressPercent(raised, goal *big.Int) float64 {
	if goal == nil || goal.Sign() == 0 || raised == nil {
		return 0
	}
	ratio := new(big.Rat).SetFrac(raised, goal)
	percent, _ := new(big.Rat).Mul(ratio, big.NewRat(100, 1)).Float64()
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func statusLabel(c domain.Campaign) string {
	switch {
	case c.IsCanceled:
		return LabelCanceled
	case c.IsSuccessful:
		return LabelSuccessful
	default:
		return LabelOngoing
	}
}
