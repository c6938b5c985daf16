package platformerrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"command-center/internal/utils/platformerrors"
)

func TestNewErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal, "upstream request failed", cause)

	require.NotEmpty(t, err.UUID)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upstream request failed")
	require.Contains(t, err.Error(), "connection refused")
}

func TestAsErrorPreservesTypeAndUUID(t *testing.T) {
	inner := platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeForbidden, "no access", nil)

	wrapped := platformerrors.AsError(context.Background(), platformerrors.LayerDomain,
		fmt.Errorf("load widget: %w", inner), "load widget")

	require.Equal(t, platformerrors.ErrorTypeForbidden, wrapped.Type)
	require.Equal(t, inner.UUID, wrapped.UUID)
	require.True(t, platformerrors.IsErrorType(wrapped, platformerrors.ErrorTypeForbidden))
}

func TestAsErrorPlainErrorBecomesInternal(t *testing.T) {
	wrapped := platformerrors.AsError(context.Background(), platformerrors.LayerDomain,
		errors.New("boom"), "do thing")
	require.Equal(t, platformerrors.ErrorTypeInternal, wrapped.Type)

	require.Nil(t, platformerrors.AsError(context.Background(), platformerrors.LayerDomain, nil, "noop"))
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errType platformerrors.ErrorType
		want    int
	}{
		{platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{platformerrors.ErrorTypeValidation, http.StatusBadRequest},
		{platformerrors.ErrorTypeUnauthorized, http.StatusUnauthorized},
		{platformerrors.ErrorTypeForbidden, http.StatusForbidden},
		{platformerrors.ErrorTypeConflict, http.StatusConflict},
		{platformerrors.ErrorTypeTimeout, http.StatusInternalServerError},
		{platformerrors.ErrorTypeInternal, http.StatusInternalServerError},
		{platformerrors.ErrorTypeExternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, platformerrors.ErrorTypeToHTTPStatus(tt.errType), string(tt.errType))
	}
}

func TestGetPlatformError(t *testing.T) {
	inner := platformerrors.NewError(context.Background(), platformerrors.LayerHandler,
		platformerrors.ErrorTypeValidation, "bad input", nil)
	require.Equal(t, inner, platformerrors.GetPlatformError(fmt.Errorf("wrap: %w", inner)))
	require.Nil(t, platformerrors.GetPlatformError(errors.New("plain")))
}
