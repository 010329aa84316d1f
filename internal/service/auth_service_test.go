package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
)

func signup() StudentSignup {
	return StudentSignup{
		FullName:    "Thandi Nkosi",
		Username:    "thandi",
		Email:       "22289351@dut4life.ac.za",
		Password:    testPassword,
		Course:      "Diploma in ICT",
		Faculty:     "Accounting and Informatics",
		YearOfStudy: 1,
	}
}

func TestAuthService_SignupStudent(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	student, session, err := svc.SignupStudent(context.Background(), signup())
	require.NoError(t, err)
	require.Equal(t, "Thandi", student.Name)
	require.Equal(t, "Nkosi", student.Surname)
	require.Equal(t, "22289351", student.StudentNumber)
	require.NotEqual(t, testPassword, student.PasswordHash)
	require.NoError(t, auth.ComparePassword(student.PasswordHash, testPassword))

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	require.Equal(t, student.ID, claims.SubjectID)
	require.Equal(t, domain.SubjectTypeStudent, claims.Subject)

	require.Len(t, f.published, 1)
	require.Equal(t, events.EventStudentRegistered, f.published[0].Type)
	require.Equal(t, student.ID, f.published[0].StudentID)
}

func TestAuthService_SignupStudentDuplicates(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	_, _, err := svc.SignupStudent(ctx, signup())
	require.NoError(t, err)

	sameEmail := signup()
	sameEmail.Username = "other"
	sameEmail.Email = "22289351@DUT4LIFE.ac.za"
	_, _, err = svc.SignupStudent(ctx, sameEmail)
	requireCode(t, err, "CONFLICT")

	sameUsername := signup()
	sameUsername.Email = "22289352@dut4life.ac.za"
	_, _, err = svc.SignupStudent(ctx, sameUsername)
	requireCode(t, err, "CONFLICT")

	require.Len(t, f.students.Order, 1)
}

func TestAuthService_LoginStudentByEmailOrUsername(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	registered, _, err := svc.SignupStudent(ctx, signup())
	require.NoError(t, err)

	for _, identifier := range []string{"22289351@dut4life.ac.za", "thandi", " thandi "} {
		student, session, err := svc.LoginStudent(ctx, identifier, testPassword)
		require.NoError(t, err, identifier)
		require.Equal(t, registered.ID, student.ID)
		require.NotEmpty(t, session.Token)
	}

	_, _, err = svc.LoginStudent(ctx, "thandi", "wrong")
	requireCode(t, err, "UNAUTHORIZED")

	_, _, err = svc.LoginStudent(ctx, "nobody", testPassword)
	requireCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_LoginStaff(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	admin := f.addStaff(t, "admin", "Ada", "Admin", domain.StaffRoleAdmin)

	staff, session, err := svc.LoginStaff(ctx, "admin", testPassword)
	require.NoError(t, err)
	require.Equal(t, admin.ID, staff.ID)
	require.NotNil(t, session.Role)
	require.Equal(t, domain.StaffRoleAdmin, *session.Role)

	_, _, err = svc.LoginStaff(ctx, admin.Email, "nope")
	requireCode(t, err, "UNAUTHORIZED")

	admin.Active = false
	require.NoError(t, f.staff.Update(ctx, admin))
	_, _, err = svc.LoginStaff(ctx, "admin", testPassword)
	requireCode(t, err, "FORBIDDEN")
}

func TestAuthService_CheckEmailAndUsername(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	exists, err := svc.CheckEmail(ctx, "22289351@dut4life.ac.za")
	require.NoError(t, err)
	require.False(t, exists)

	_, _, err = svc.SignupStudent(ctx, signup())
	require.NoError(t, err)

	exists, err = svc.CheckEmail(ctx, "22289351@dut4life.ac.za")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.CheckUsername(ctx, "thandi")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.CheckUsername(ctx, "sipho")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestAuthService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	student, _, err := svc.SignupStudent(ctx, signup())
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, student.Email)
	require.NoError(t, err)
	require.Equal(t, domain.SubjectTypeStudent, token.SubjectType)
	require.Equal(t, student.ID, token.SubjectID)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, token.Token, "NewSecret2?"))
	_, _, err = svc.LoginStudent(ctx, "thandi", "NewSecret2?")
	require.NoError(t, err)

	err = svc.ConfirmPasswordReset(ctx, token.Token, "Another3!")
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.RequestPasswordReset(ctx, "ghost@dut4life.ac.za")
	requireCode(t, err, "NOT_FOUND")
}

func TestAuthService_PasswordResetExpired(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	staff := f.addStaff(t, "lecturer", "Lee", "Naidoo", domain.StaffRoleStaff)
	token, err := svc.RequestPasswordReset(ctx, staff.Email)
	require.NoError(t, err)
	require.Equal(t, domain.SubjectTypeStaff, token.SubjectType)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	err = svc.ConfirmPasswordReset(ctx, token.Token, "NewSecret2?")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	student, _, err := svc.SignupStudent(ctx, signup())
	require.NoError(t, err)
	subject := AuthSubject{Type: domain.SubjectTypeStudent, ID: student.ID}

	err = svc.ChangePassword(ctx, subject, "wrong", "NewSecret2?")
	requireCode(t, err, "UNAUTHORIZED")

	require.NoError(t, svc.ChangePassword(ctx, subject, testPassword, "NewSecret2?"))
	_, _, err = svc.LoginStudent(ctx, "thandi", "NewSecret2?")
	require.NoError(t, err)
}

func TestSplitFullName(t *testing.T) {
	name, surname := splitFullName("  Thandi Nkosi ")
	require.Equal(t, "Thandi", name)
	require.Equal(t, "Nkosi", surname)

	name, surname = splitFullName("Mononym")
	require.Equal(t, "Mononym", name)
	require.Empty(t, surname)
}
