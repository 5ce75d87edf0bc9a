package web

import (
	"net/http"

	"google.golang.org/grpc/codes"

	apperrors "github.com/zeecrowd/zeecrowd/internal/platform/errors"
)

// errorHTTPStatus maps a domain error to an HTTP status via its gRPC code.
// It returns fallback for unmapped codes.
func errorHTTPStatus(err error, fallback int) int {
	switch apperrors.GetCode(err).GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return fallback
	}
}
