package chain

import (
	"errors"
	"fmt"
	"net"
	"testing"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// fakeRPCError mimics a JSON-RPC error response from the node or wallet.
type fakeRPCError struct {
	code int
	msg  string
}

func (e *fakeRPCError) Error() string  { return e.msg }
func (e *fakeRPCError) ErrorCode() int { return e.code }

func TestClassifyRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"eip-1193 code", &fakeRPCError{code: 4001, msg: "request rejected"}},
		{"metamask message", errors.New("MetaMask Tx Signature: User denied transaction signature.")},
		{"generic rejection", errors.New("user rejected the request")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if !apperrors.IsCode(got, apperrors.CodeTransactionRejected) {
				t.Fatalf("code = %v, want TRANSACTION_REJECTED", apperrors.GetCode(got))
			}
			if !errors.Is(got, tc.err) {
				t.Fatal("classified error lost its cause")
			}
		})
	}
}

func TestClassifyRevertWithReason(t *testing.T) {
	err := &fakeRPCError{code: 3, msg: "execution reverted: Campaign is closed"}

	got := Classify(err)
	if !apperrors.IsCode(got, apperrors.CodeTransactionReverted) {
		t.Fatalf("code = %v, want TRANSACTION_REVERTED", apperrors.GetCode(got))
	}
	if meta := apperrors.GetMetadata(got); meta["reason"] != "Campaign is closed" {
		t.Fatalf("reason = %q", meta["reason"])
	}
}

func TestClassifyRevertWithoutReason(t *testing.T) {
	got := Classify(errors.New("execution reverted"))
	if !apperrors.IsCode(got, apperrors.CodeTransactionReverted) {
		t.Fatalf("code = %v, want TRANSACTION_REVERTED", apperrors.GetCode(got))
	}
	if meta := apperrors.GetMetadata(got); len(meta) != 0 {
		t.Fatalf("expected no metadata, got %v", meta)
	}
}

func TestClassifyPassesThroughDomainErrors(t *testing.T) {
	original := apperrors.New(apperrors.CodeWalletUnavailable, "no account")
	if got := Classify(original); !errors.Is(got, original) {
		t.Fatal("domain error was re-wrapped")
	}
}

func TestClassifyUnknown(t *testing.T) {
	got := Classify(errors.New("nonce too low"))
	if !apperrors.IsCode(got, apperrors.CodeUnknown) {
		t.Fatalf("code = %v, want UNKNOWN", apperrors.GetCode(got))
	}
}

func TestIsConnectionError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Err: errors.New("refused")}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net op error", opErr, true},
		{"wrapped net error", fmt.Errorf("post: %w", opErr), true},
		{"refused text", errors.New("connection refused"), true},
		{"contract error", errors.New("execution reverted"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsConnectionError(tc.err); got != tc.want {
				t.Fatalf("IsConnectionError = %v, want %v", got, tc.want)
			}
		})
	}
}
