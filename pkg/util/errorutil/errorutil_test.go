package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-portal/internal/roster"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error kept", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewConflict("dup", nil)), "CONFLICT", http.StatusConflict},
		{"fiber error", fiber.NewError(http.StatusNotFound, "Cannot GET /x"), "NOT_FOUND", http.StatusNotFound},
		{"fiber teapot", fiber.NewError(http.StatusTeapot, "tea"), "REQUEST_FAILED", http.StatusTeapot},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "students_username_key"}, "CONFLICT", http.StatusConflict},
		{"invalid column", fmt.Errorf("%w: 9", roster.ErrInvalidColumn), "INVALID_COLUMN", http.StatusBadRequest},
		{"anything else", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			require.Equal(t, tt.code, got.Code)
			require.Equal(t, tt.status, got.HTTPStatus)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	require.NoError(t, MapError(nil))
	require.Nil(t, ToDomainError(nil))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternalError(cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "db down")
}
