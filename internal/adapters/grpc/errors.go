package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// toStatus maps application errors onto gRPC status codes
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	var notFound *shared.SessionNotFoundError
	var invalid *shared.ValidationError

	switch {
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &invalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// IsNotFound reports whether a (possibly wrapped) client error carries codes.NotFound
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
