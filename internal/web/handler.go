package web

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/ethereum/go-ethereum/common"

	"github.com/zeecrowd/zeecrowd/internal/campaign/action"
	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
	"github.com/zeecrowd/zeecrowd/internal/campaign/projection"
	"github.com/zeecrowd/zeecrowd/internal/notify"
	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
	"github.com/zeecrowd/zeecrowd/internal/web/templates"
)

const pageTitle = "ZEE Crowd"

// CampaignSource serves campaign snapshots and reloads them on demand.
type CampaignSource interface {
	Snapshot() []domain.Campaign
	Refresh(ctx context.Context) error
}

// Actions drives the mutating contract calls.
type Actions interface {
	Contribute(ctx context.Context, campaignID uint64, amount string) error
	Withdraw(ctx context.Context, campaignID uint64) error
	Create(ctx context.Context, goalAmount string) error
	States() map[action.Key]action.Status
}

// Wallet manages the account transactions are signed with.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	UseAccount(account common.Address)
	Account() (common.Address, bool)
}

// Handler serves the campaign pages and form submissions.
type Handler struct {
	campaigns CampaignSource
	actions   Actions
	wallet    Wallet
	projector *projection.Projector
	feed      *notify.Feed
}

// NewHandler builds the HTTP handler for the web server. A nil wallet renders
// the disconnected state permanently.
func NewHandler(campaigns CampaignSource, actions Actions, wallet Wallet, projector *projection.Projector, feed *notify.Feed) http.Handler {
	h := &Handler{
		campaigns: campaigns,
		actions:   actions,
		wallet:    wallet,
		projector: projector,
		feed:      feed,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /campaigns", h.create)
	mux.HandleFunc("POST /campaigns/{id}/contribute", h.contribute)
	mux.HandleFunc("POST /campaigns/{id}/withdraw", h.withdraw)
	mux.HandleFunc("POST /wallet/connect", h.connectWallet)
	return mux
}

// home reloads the campaign list and renders it with any queued notices.
// A failed reload keeps the previous snapshot; the sequence guard in the
// repository makes overlapping per-view refreshes safe.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Refresh(r.Context()); err != nil {
		log.Printf("refresh campaigns: %v", err)
	}

	states := h.actions.States()

	var campaigns []templates.CampaignCard
	for _, vm := range h.projector.ProjectAll(h.campaigns.Snapshot()) {
		campaigns = append(campaigns, templates.CampaignCard{
			ViewModel:         vm,
			ContributePending: states[action.ContributeKey(vm.ID)].State == action.StatePending,
			WithdrawPending:   states[action.WithdrawKey(vm.ID)].State == action.StatePending,
		})
	}

	var notices []templates.Notice
	for _, n := range h.feed.Drain() {
		notices = append(notices, templates.Notice{Level: string(n.Level), Message: n.Message})
	}

	data := templates.HomeData{
		Title:         pageTitle,
		CreatePending: states[action.CreateKey()].State == action.StatePending,
		Notices:       notices,
		Campaigns:     campaigns,
	}
	if h.wallet != nil {
		if account, ok := h.wallet.Account(); ok {
			data.Connected = true
			data.WalletAddress = account.Hex()
		}
	}

	templ.Handler(templates.Home(data)).ServeHTTP(w, r)
}

// create submits a new campaign with the posted goal amount.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := h.actions.Create(r.Context(), r.FormValue("goal")); err != nil {
		h.actionFailed(w, r, "Create failed", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// contribute submits a contribution to one campaign.
func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	if err := h.actions.Contribute(r.Context(), id, r.FormValue("amount")); err != nil {
		h.actionFailed(w, r, "Contribution failed", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// withdraw collects a successful campaign's funds.
func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	if err := h.actions.Withdraw(r.Context(), id); err != nil {
		h.actionFailed(w, r, "Withdrawal failed", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// connectWallet authorizes the application with the wallet and selects the
// first returned account.
func (h *Handler) connectWallet(w http.ResponseWriter, r *http.Request) {
	if h.wallet == nil {
		err := apperrors.New(apperrors.CodeWalletUnavailable, "no wallet configured")
		h.renderError(w, r, "Wallet unavailable", err)
		return
	}

	accounts, err := h.wallet.RequestAccounts(r.Context())
	if err != nil {
		h.renderError(w, r, "Wallet connection failed", err)
		return
	}
	h.wallet.UseAccount(accounts[0])
	h.feed.Notify(notify.LevelSuccess, "Wallet connected!")

	if err := h.campaigns.Refresh(r.Context()); err != nil {
		h.feed.Notify(notify.LevelError, apperrors.UserMessage(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// actionFailed resolves a coordinator error. Validation and duplicate
// submissions resolve synchronously and never reach the notification sink, so
// they render an error page directly; everything else already produced a
// notice and redirects back to the list.
func (h *Handler) actionFailed(w http.ResponseWriter, r *http.Request, title string, err error) {
	if apperrors.IsCode(err, apperrors.CodeInvalidAmount) || apperrors.IsCode(err, apperrors.CodeActionAlreadyPending) {
		h.renderError(w, r, title, err)
		return
	}
	log.Printf("%s: %v", title, err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderError writes a standalone error page with the HTTP status mapped from
// the error code.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, title string, err error) {
	data := templates.ErrorData{Title: title, Message: apperrors.UserMessage(err)}
	component := templ.Handler(templates.ErrorPage(data),
		templ.WithStatus(errorHTTPStatus(err, http.StatusBadGateway)))
	component.ServeHTTP(w, r)
}

// campaignID parses the path's campaign id, writing a 400 on failure.
func campaignID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
