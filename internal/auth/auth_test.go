package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/student-portal/internal/domain"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

type studentsByID map[string]*domain.Student

func (s studentsByID) GetByID(_ context.Context, id string) (*domain.Student, error) {
	if st, ok := s[id]; ok {
		return st, nil
	}
	return nil, pgx.ErrNoRows
}

type staffByID map[string]*domain.StaffMember

func (s staffByID) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if st, ok := s[id]; ok {
		return st, nil
	}
	return nil, pgx.ErrNoRows
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	role := domain.StaffRoleAdmin

	session, err := tm.Issue("staff-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	claims, err := tm.ParseToken(session.Token)
	require.NoError(t, err)
	require.Equal(t, "staff-1", claims.SubjectID)
	require.Equal(t, domain.SubjectTypeStaff, claims.Subject)
	require.Equal(t, domain.StaffRoleAdmin, *claims.Role)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	session, err := tm.Issue("s-1", domain.SubjectTypeStudent, nil)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(session.Token)
	require.Error(t, err)

	other := NewTokenManager("other-secret", 1)
	_, err = other.ParseToken(session.Token)
	require.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng@Pass", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "Str0ng@Pass"))
	require.Error(t, ComparePassword(hash, "wrong"))

	hash, err = HashPassword("x", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func newTestApp(tm *TokenManager, guard fiber.Handler) *fiber.App {
	students := studentsByID{"stu-1": {ID: "stu-1", Name: "Amy"}}
	staff := staffByID{
		"staff-1": {ID: "staff-1", Role: domain.StaffRoleStaff, Active: true},
		"admin-1": {ID: "admin-1", Role: domain.StaffRoleAdmin, Active: true},
		"gone-1":  {ID: "gone-1", Role: domain.StaffRoleAdmin, Active: false},
	}
	mw := NewAuthMiddleware(tm, students, staff)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/protected", mw.Handle, guard, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.SubjectID())
	})
	return app
}

func bearer(t *testing.T, tm *TokenManager, id string, subject domain.SubjectType) string {
	t.Helper()
	s, err := tm.Issue(id, subject, nil)
	require.NoError(t, err)
	return "Bearer " + s.Token
}

func TestAuthMiddleware_Guards(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	cases := []struct {
		name   string
		guard  fiber.Handler
		header string
		status int
	}{
		{"missing header", RequireAnyRole(), "", http.StatusUnauthorized},
		{"bad scheme", RequireAnyRole(), "Basic abc", http.StatusUnauthorized},
		{"garbage token", RequireAnyRole(), "Bearer abc", http.StatusUnauthorized},
		{"student ok", RequireStudent(), bearer(t, tm, "stu-1", domain.SubjectTypeStudent), http.StatusOK},
		{"unknown student", RequireStudent(), bearer(t, tm, "stu-9", domain.SubjectTypeStudent), http.StatusUnauthorized},
		{"student denied staff route", RequireStaffRole(), bearer(t, tm, "stu-1", domain.SubjectTypeStudent), http.StatusForbidden},
		{"staff any role", RequireStaffRole(), bearer(t, tm, "staff-1", domain.SubjectTypeStaff), http.StatusOK},
		{"staff denied admin route", RequireStaffRole(domain.StaffRoleAdmin), bearer(t, tm, "staff-1", domain.SubjectTypeStaff), http.StatusForbidden},
		{"admin ok", RequireStaffRole(domain.StaffRoleAdmin), bearer(t, tm, "admin-1", domain.SubjectTypeStaff), http.StatusOK},
		{"inactive staff", RequireStaffRole(), bearer(t, tm, "gone-1", domain.SubjectTypeStaff), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tm, tc.guard)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
