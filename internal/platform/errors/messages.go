package errors

import (
	"bytes"
	"text/template"
)

// userMessages maps error codes to user-facing message templates.
// Templates receive the error's metadata map.
var userMessages = map[Code]string{
	CodeInvalidAmount:         "Please enter a valid contribution amount.",
	CodeActionAlreadyPending:  "That action is already in progress.",
	CodeRepositoryUnavailable: "Connect a wallet to see campaigns.",
	CodeFetchFailed:           "Failed to fetch campaigns.",
	CodeUnrecognizedRecord:    "The contract returned an unrecognized campaign record.",
	CodeTransactionRejected:   "Transaction canceled in your wallet.",
	CodeTransactionReverted:   "The contract rejected the transaction{{if .reason}}: {{.reason}}{{end}}.",
	CodeWalletUnavailable:     "No wallet connection is available.",
	CodeUnknown:               "An unexpected error occurred.",
}

// UserMessage renders the user-facing message for an error.
// Unknown errors get a generic message so internal details never leak to the page.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	code := GetCode(err)
	tmpl, ok := userMessages[code]
	if !ok {
		return userMessages[CodeUnknown]
	}

	metadata := GetMetadata(err)
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, parseErr := template.New("msg").Parse(tmpl)
	if parseErr != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if execErr := t.Execute(&buf, metadata); execErr != nil {
		return tmpl
	}
	return buf.String()
}
