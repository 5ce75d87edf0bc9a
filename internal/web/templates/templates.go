// Package templates renders the HTML views for the web server.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/zeecrowd/zeecrowd/internal/campaign/projection"
)

//go:embed *.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "*.html"))

// Notice is one toast-style feedback message.
type Notice struct {
	// Level is the severity class, "success" or "error".
	Level string
	// Message is the user-facing text.
	Message string
}

// CampaignCard holds one campaign's display fields plus its in-flight
// action indicators.
type CampaignCard struct {
	projection.ViewModel
	// ContributePending reports an unresolved contribution for this campaign.
	ContributePending bool
	// WithdrawPending reports an unresolved withdrawal for this campaign.
	WithdrawPending bool
}

// HomeData holds everything the campaign list page renders.
type HomeData struct {
	// Title is the page title.
	Title string
	// Connected reports whether a wallet account is selected.
	Connected bool
	// WalletAddress is the selected account, empty when disconnected.
	WalletAddress string
	// CreatePending reports an unresolved campaign creation.
	CreatePending bool
	// Notices are the queued feedback messages, oldest first.
	Notices []Notice
	// Campaigns are the campaign cards in id order.
	Campaigns []CampaignCard
}

// ErrorData holds the fields for the error page.
type ErrorData struct {
	// Title is the short error heading.
	Title string
	// Message is the user-facing explanation.
	Message string
}

// Home renders the campaign list page.
func Home(data HomeData) templ.Component {
	return render("home.html", data)
}

// ErrorPage renders a standalone error page.
func ErrorPage(data ErrorData) templ.Component {
	return render("error.html", data)
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}
