// Package errors provides structured error handling for the crowdfunding app.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Amount errors
	CodeInvalidAmount Code = "INVALID_AMOUNT"

	// Action errors
	CodeActionAlreadyPending Code = "ACTION_ALREADY_PENDING"

	// Repository errors
	CodeRepositoryUnavailable Code = "REPOSITORY_UNAVAILABLE"
	CodeFetchFailed           Code = "FETCH_FAILED"
	CodeUnrecognizedRecord    Code = "UNRECOGNIZED_RECORD_SHAPE"

	// Transaction errors
	CodeTransactionRejected Code = "TRANSACTION_REJECTED"
	CodeTransactionReverted Code = "TRANSACTION_REVERTED"

	// Wallet errors
	CodeWalletUnavailable Code = "WALLET_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidAmount,
		CodeUnrecognizedRecord:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow the operation
	case CodeActionAlreadyPending,
		CodeTransactionReverted:
		return codes.FailedPrecondition

	// Unavailable - no connection to the wallet or contract
	case CodeRepositoryUnavailable,
		CodeWalletUnavailable,
		CodeFetchFailed:
		return codes.Unavailable

	// Canceled - the user declined to sign
	case CodeTransactionRejected:
		return codes.Canceled

	default:
		return codes.Internal
	}
}
