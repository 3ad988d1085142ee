package grpc

import (
	"errors"

	"github.com/plastyfilm/go-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCErrorResponse переводит доменную ошибку в gRPC-статус. Внутренние детали наружу не отдаются.
func GRPCErrorResponse(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrInvalidQueryParam):
		return status.Error(codes.InvalidArgument, e.ErrInvalidQueryParam.Error())
	case errors.Is(err, e.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, e.ErrUnauthorized.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
