package chain

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// EIP-1193 error code for a user rejecting a wallet request.
const codeUserRejected = 4001

// Classify maps a raw submission or confirmation error onto the app's error
// taxonomy: user rejection, contract revert, or an unknown failure.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	if isRejection(err) {
		return apperrors.Wrap(apperrors.CodeTransactionRejected, "transaction rejected by wallet", err)
	}

	if reason, ok := revertReason(err); ok {
		metadata := map[string]string{}
		if reason != "" {
			metadata["reason"] = reason
		}
		return &apperrors.Error{
			Code:     apperrors.CodeTransactionReverted,
			Message:  "transaction reverted: " + reason,
			Metadata: metadata,
			Cause:    err,
		}
	}

	return apperrors.Wrap(apperrors.CodeUnknown, err.Error(), err)
}

func isRejection(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeUserRejected {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user denied") || strings.Contains(msg, "user rejected")
}

// revertReason extracts the revert reason from an error, if the error is a
// contract-level revert. The node reports these as "execution reverted" with
// the reason appended when the contract supplied one.
func revertReason(err error) (string, bool) {
	msg := err.Error()
	idx := strings.Index(strings.ToLower(msg), "execution reverted")
	if idx < 0 {
		return "", false
	}
	reason := msg[idx+len("execution reverted"):]
	reason = strings.TrimPrefix(reason, ":")
	return strings.TrimSpace(reason), true
}

// IsConnectionError reports whether err looks like the node is unreachable,
// as opposed to the node answering with an error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")
}
