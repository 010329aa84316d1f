package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/config"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/mocks"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

const testPassword = "Secret1!x"

type fixture struct {
	cfg         config.Config
	students    *mocks.MockStudentRepository
	staff       *mocks.MockStaffRepository
	assignments *mocks.MockAssignmentRepository
	resets      *mocks.MockPasswordResetRepository
	cache       *mocks.MockRosterCache
	tests       *mocks.MockAssessmentRepository
	sessions    *mocks.MockTestSessionRepository
	dispatcher  events.Dispatcher
	published   []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	staff := mocks.NewMockStaffRepository()
	f := &fixture{
		cfg: config.Config{
			Auth: config.AuthConfig{
				JWTSecret:               "test-secret",
				AccessTokenTTLMinutes:   720,
				PasswordResetTTLMinutes: 30,
				BcryptCost:              bcrypt.MinCost,
			},
			Roster: config.RosterConfig{CacheTTLSeconds: 60, Language: "en"},
		},
		students:    mocks.NewMockStudentRepository(),
		staff:       staff,
		assignments: mocks.NewMockAssignmentRepository(staff),
		resets:      mocks.NewMockPasswordResetRepository(),
		cache:       mocks.NewMockRosterCache(),
		tests:       mocks.NewMockAssessmentRepository(),
		sessions:    mocks.NewMockTestSessionRepository(),
		dispatcher:  events.NewInMemoryDispatcher(nil),
	}
	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	for _, kind := range []events.EventType{
		events.EventStudentRegistered,
		events.EventStudentAssigned,
		events.EventStudentUnassigned,
		events.EventPasswordReset,
		events.EventStaffCreated,
		events.EventStaffUpdated,
		events.EventTestSubmitted,
	} {
		f.dispatcher.Subscribe(kind, record)
	}
	return f
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.cfg, AuthDependencies{
		StudentRepo:       f.students,
		StaffRepo:         f.staff,
		PasswordResetRepo: f.resets,
		Dispatcher:        f.dispatcher,
	})
}

func (f *fixture) assignmentService() *AssignmentService {
	return NewAssignmentService(AssignmentDependencies{
		StudentRepo:    f.students,
		StaffRepo:      f.staff,
		AssignmentRepo: f.assignments,
		Dispatcher:     f.dispatcher,
	})
}

func (f *fixture) staffService() *StaffService {
	return NewStaffService(f.cfg, StaffDependencies{
		StaffRepo:  f.staff,
		Dispatcher: f.dispatcher,
	})
}

func (f *fixture) assessmentService() *AssessmentService {
	return NewAssessmentService(AssessmentDependencies{
		AssessmentRepo: f.tests,
		SessionRepo:    f.sessions,
		Dispatcher:     f.dispatcher,
	})
}

func (f *fixture) rosterService() *RosterService {
	return NewRosterService(f.cfg.Roster, RosterDependencies{
		StudentRepo:    f.students,
		AssignmentRepo: f.assignments,
		Cache:          f.cache,
	})
}

func (f *fixture) addStaff(t *testing.T, username, name, surname string, role domain.StaffRole) *domain.StaffMember {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	member := &domain.StaffMember{
		Username:     username,
		Name:         name,
		Surname:      surname,
		Email:        username + "@dut.ac.za",
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.staff.Create(context.Background(), member))
	return member
}

func (f *fixture) addStudent(t *testing.T, number, name, surname string) *domain.Student {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	student := &domain.Student{
		StudentNumber: number,
		Name:          name,
		Surname:       surname,
		Username:      name + number,
		Email:         number + "@dut4life.ac.za",
		Course:        "Diploma in ICT",
		Faculty:       "Accounting and Informatics",
		YearOfStudy:   2,
		PasswordHash:  hash,
	}
	require.NoError(t, f.students.Create(context.Background(), student))
	return student
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code, err.Error())
}

func errorDetails(t *testing.T, err error) map[string]any {
	t.Helper()
	return apperrors.ToDomainError(err).Details
}
