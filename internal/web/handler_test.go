package web

import (
	"context"
	"log"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/net/html"

	"github.com/zeecrowd/zeecrowd/internal/campaign/action"
	"github.com/zeecrowd/zeecrowd/internal/campaign/domain"
	"github.com/zeecrowd/zeecrowd/internal/campaign/projection"
	"github.com/zeecrowd/zeecrowd/internal/notify"
	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

type fakeSource struct {
	snapshot   []domain.Campaign
	refreshes  int
	refreshErr error
}

func (f *fakeSource) Snapshot() []domain.Campaign { return f.snapshot }

func (f *fakeSource) Refresh(ctx context.Context) error {
	f.refreshes++
	return f.refreshErr
}

type fakeActions struct {
	contributeFn func(ctx context.Context, campaignID uint64, amount string) error
	withdrawFn   func(ctx context.Context, campaignID uint64) error
	createFn     func(ctx context.Context, goalAmount string) error
	states       map[action.Key]action.Status
}

func (f *fakeActions) Contribute(ctx context.Context, campaignID uint64, amount string) error {
	if f.contributeFn == nil {
		return nil
	}
	return f.contributeFn(ctx, campaignID, amount)
}

func (f *fakeActions) Withdraw(ctx context.Context, campaignID uint64) error {
	if f.withdrawFn == nil {
		return nil
	}
	return f.withdrawFn(ctx, campaignID)
}

func (f *fakeActions) Create(ctx context.Context, goalAmount string) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, goalAmount)
}

func (f *fakeActions) States() map[action.Key]action.Status {
	if f.states == nil {
		return map[action.Key]action.Status{}
	}
	return f.states
}

type fakeWallet struct {
	account    common.Address
	hasAccount bool
	requestFn  func(ctx context.Context) ([]common.Address, error)
	used       []common.Address
}

func (f *fakeWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if f.requestFn == nil {
		return []common.Address{f.account}, nil
	}
	return f.requestFn(ctx)
}

func (f *fakeWallet) UseAccount(account common.Address) {
	f.used = append(f.used, account)
	f.account = account
	f.hasAccount = true
}

func (f *fakeWallet) Account() (common.Address, bool) { return f.account, f.hasAccount }

func newTestHandler(source *fakeSource, actions *fakeActions, wallet Wallet) (http.Handler, *notify.Feed) {
	feed := notify.NewFeed(16, log.New(log.Writer(), "", 0))
	projector := projection.New("en-US", time.UTC)
	return NewHandler(source, actions, wallet, projector, feed), feed
}

func sampleCampaigns() []domain.Campaign {
	ether := func(n int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	}
	creator := common.HexToAddress("0x379aC4ffeFf3D91A9F4Ffa55Ba37B73C751Ed63E")
	return []domain.Campaign{
		{ID: 0, Creator: creator, GoalAmount: ether(10), FundsRaised: ether(5), Deadline: 1_700_000_000},
		{ID: 1, Creator: creator, GoalAmount: ether(10), FundsRaised: ether(10), Deadline: 1_700_000_000, IsSuccessful: true},
		{ID: 2, Creator: creator, GoalAmount: ether(10), FundsRaised: ether(1), Deadline: 1_700_000_000, IsCanceled: true},
	}
}

// formActions parses the page and collects every form's action attribute.
func formActions(t *testing.T, body string) []string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	var actions []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "form" {
			for _, attr := range n.Attr {
				if attr.Key == "action" {
					actions = append(actions, attr.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return actions
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHomeDisconnected(t *testing.T) {
	handler, _ := newTestHandler(&fakeSource{}, &fakeActions{}, &fakeWallet{})

	rec := get(t, handler, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Connect Wallet") {
		t.Fatal("missing wallet connect button")
	}
	if !strings.Contains(body, "No campaigns yet.") {
		t.Fatal("missing empty state")
	}

	actions := formActions(t, body)
	if len(actions) != 1 || actions[0] != "/wallet/connect" {
		t.Fatalf("forms = %v, want only wallet connect", actions)
	}
}

func TestHomeConnectedRendersCampaigns(t *testing.T) {
	wallet := &fakeWallet{account: common.HexToAddress("0x01"), hasAccount: true}
	handler, _ := newTestHandler(&fakeSource{snapshot: sampleCampaigns()}, &fakeActions{}, wallet)

	rec := get(t, handler, "/")
	body := rec.Body.String()

	for _, want := range []string{
		"Campaign #0", "Campaign #1", "Campaign #2",
		"Ongoing", "Successful", "Canceled",
		"50.00%", "100.00%",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}

	actions := formActions(t, body)
	want := map[string]bool{
		"/campaigns":              false, // create form
		"/campaigns/0/contribute": false, // ongoing campaign
		"/campaigns/1/withdraw":   false, // successful campaign
	}
	for _, a := range actions {
		if _, ok := want[a]; ok {
			want[a] = true
		}
		if a == "/campaigns/2/contribute" || a == "/campaigns/2/withdraw" {
			t.Fatalf("canceled campaign offers form %s", a)
		}
	}
	for a, seen := range want {
		if !seen {
			t.Fatalf("missing form %s in %v", a, actions)
		}
	}
}

func TestHomeRefreshesOnEveryView(t *testing.T) {
	source := &fakeSource{}
	handler, _ := newTestHandler(source, &fakeActions{}, &fakeWallet{})

	for i := 0; i < 3; i++ {
		if rec := get(t, handler, "/"); rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if source.refreshes != 3 {
		t.Fatalf("refreshes = %d, want one per page view", source.refreshes)
	}
}

func TestHomeRendersPreviousSnapshotWhenRefreshFails(t *testing.T) {
	source := &fakeSource{
		snapshot:   sampleCampaigns(),
		refreshErr: apperrors.New(apperrors.CodeFetchFailed, "read campaign count"),
	}
	handler, _ := newTestHandler(source, &fakeActions{}, &fakeWallet{})

	rec := get(t, handler, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Campaign #0") {
		t.Fatal("previous snapshot not rendered after failed refresh")
	}
}

func TestHomeDrainsNotices(t *testing.T) {
	handler, feed := newTestHandler(&fakeSource{}, &fakeActions{}, &fakeWallet{})
	feed.Notify(notify.LevelSuccess, "Contribution successful!")

	first := get(t, handler, "/")
	if !strings.Contains(first.Body.String(), "Contribution successful!") {
		t.Fatal("notice not rendered")
	}

	second := get(t, handler, "/")
	if strings.Contains(second.Body.String(), "Contribution successful!") {
		t.Fatal("notice rendered twice")
	}
}

func TestHomeShowsPendingState(t *testing.T) {
	wallet := &fakeWallet{account: common.HexToAddress("0x01"), hasAccount: true}
	actions := &fakeActions{states: map[action.Key]action.Status{
		action.ContributeKey(0): {State: action.StatePending},
	}}
	handler, _ := newTestHandler(&fakeSource{snapshot: sampleCampaigns()}, actions, wallet)

	body := get(t, handler, "/").Body.String()
	if !strings.Contains(body, "Contributing...") {
		t.Fatal("pending contribution not indicated")
	}
}

func TestContributeRedirectsOnSuccess(t *testing.T) {
	var gotID uint64
	var gotAmount string
	actions := &fakeActions{contributeFn: func(ctx context.Context, campaignID uint64, amount string) error {
		gotID, gotAmount = campaignID, amount
		return nil
	}}
	handler, _ := newTestHandler(&fakeSource{}, actions, &fakeWallet{})

	rec := postForm(t, handler, "/campaigns/5/contribute", url.Values{"amount": {"1.5"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("location = %q", loc)
	}
	if gotID != 5 || gotAmount != "1.5" {
		t.Fatalf("forwarded id=%d amount=%q", gotID, gotAmount)
	}
}

func TestContributeInvalidAmountIsBadRequest(t *testing.T) {
	actions := &fakeActions{contributeFn: func(ctx context.Context, campaignID uint64, amount string) error {
		return apperrors.New(apperrors.CodeInvalidAmount, "amount is not numeric")
	}}
	handler, _ := newTestHandler(&fakeSource{}, actions, &fakeWallet{})

	rec := postForm(t, handler, "/campaigns/5/contribute", url.Values{"amount": {"abc"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Contribution failed") {
		t.Fatal("missing error page title")
	}
}

func TestContributeAlreadyPendingIsConflict(t *testing.T) {
	actions := &fakeActions{contributeFn: func(ctx context.Context, campaignID uint64, amount string) error {
		return apperrors.New(apperrors.CodeActionAlreadyPending, "contribute already pending")
	}}
	handler, _ := newTestHandler(&fakeSource{}, actions, &fakeWallet{})

	rec := postForm(t, handler, "/campaigns/5/contribute", url.Values{"amount": {"1.0"}})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestContributeRevertRedirectsBack(t *testing.T) {
	// Asynchronous failures already produced a feed notice; the page reload
	// renders it.
	actions := &fakeActions{contributeFn: func(ctx context.Context, campaignID uint64, amount string) error {
		return apperrors.New(apperrors.CodeTransactionReverted, "execution reverted")
	}}
	handler, _ := newTestHandler(&fakeSource{}, actions, &fakeWallet{})

	rec := postForm(t, handler, "/campaigns/5/contribute", url.Values{"amount": {"1.0"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestWithdrawBadIDIsBadRequest(t *testing.T) {
	handler, _ := newTestHandler(&fakeSource{}, &fakeActions{}, &fakeWallet{})

	rec := postForm(t, handler, "/campaigns/not-a-number/withdraw", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestConnectWalletSelectsFirstAccount(t *testing.T) {
	first := common.HexToAddress("0x0000000000000000000000000000000000000aaa")
	wallet := &fakeWallet{requestFn: func(ctx context.Context) ([]common.Address, error) {
		return []common.Address{first, common.HexToAddress("0x0bbb")}, nil
	}}
	source := &fakeSource{}
	handler, _ := newTestHandler(source, &fakeActions{}, wallet)

	rec := postForm(t, handler, "/wallet/connect", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if len(wallet.used) != 1 || wallet.used[0] != first {
		t.Fatalf("selected accounts = %v", wallet.used)
	}
	if source.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", source.refreshes)
	}
}

func TestConnectWalletRejection(t *testing.T) {
	wallet := &fakeWallet{requestFn: func(ctx context.Context) ([]common.Address, error) {
		return nil, apperrors.New(apperrors.CodeTransactionRejected, "user denied account access")
	}}
	source := &fakeSource{}
	handler, _ := newTestHandler(source, &fakeActions{}, wallet)

	rec := postForm(t, handler, "/wallet/connect", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if source.refreshes != 0 {
		t.Fatal("rejection triggered a refresh")
	}
}

func TestConnectWalletUnconfigured(t *testing.T) {
	handler, _ := newTestHandler(&fakeSource{}, &fakeActions{}, nil)

	rec := postForm(t, handler, "/wallet/connect", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
