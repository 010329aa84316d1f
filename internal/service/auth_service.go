package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/config"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/repository"
	"github.com/spec-kit/student-portal/internal/validation"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Type domain.SubjectType
	ID   string
}

// StudentSignup carries already validated registration fields.
type StudentSignup struct {
	FullName    string
	Username    string
	Email       string
	Password    string
	Course      string
	Faculty     string
	YearOfStudy int
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	students   repository.StudentRepository
	staff      repository.StaffRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	StudentRepo       repository.StudentRepository
	StaffRepo         repository.StaffRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		students:   deps.StudentRepo,
		staff:      deps.StaffRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// SignupStudent registers a student and signs them in.
func (s *AuthService) SignupStudent(ctx context.Context, in StudentSignup) (*domain.Student, *domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	emailTaken, err := s.students.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if emailTaken {
		return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	usernameTaken, err := s.students.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if usernameTaken {
		return nil, nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	name, surname := splitFullName(in.FullName)
	student := &domain.Student{
		ID:            uuid.NewString(),
		StudentNumber: validation.StudentNumber(email),
		Name:          name,
		Surname:       surname,
		Username:      username,
		Email:         email,
		Course:        strings.TrimSpace(in.Course),
		Faculty:       strings.TrimSpace(in.Faculty),
		YearOfStudy:   in.YearOfStudy,
		PasswordHash:  hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	session, err := s.tokenMgr.Issue(student.ID, domain.SubjectTypeStudent, nil)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventStudentRegistered,
		StudentID: student.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeStudent, StudentID: &student.ID},
		Payload: events.StudentRegisteredPayload{
			StudentNumber: student.StudentNumber,
			Email:         student.Email,
			Faculty:       student.Faculty,
		},
	})
	return student, session, nil
}

// LoginStudent authenticates a student by email or username.
func (s *AuthService) LoginStudent(ctx context.Context, identifier, password string) (*domain.Student, *domain.Session, error) {
	student, err := s.students.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(student.PasswordHash, password); err != nil {
		return nil, nil, errInvalidCredentials
	}
	session, err := s.tokenMgr.Issue(student.ID, domain.SubjectTypeStudent, nil)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return student, session, nil
}

// LoginStaff authenticates staff by email or username and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, identifier, password string) (*domain.StaffMember, *domain.Session, error) {
	staff, err := s.staff.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, nil, apperrors.NewForbidden("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, nil, errInvalidCredentials
	}
	session, err := s.tokenMgr.Issue(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return staff, session, nil
}

// CheckEmail reports whether a student already registered the email.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.students.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return exists, apperrors.MapError(err)
}

// CheckUsername reports whether a student already took the username.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.students.ExistsByUsername(ctx, strings.TrimSpace(username))
	return exists, apperrors.MapError(err)
}

// RequestPasswordReset persists a reset token for either a student or staff email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	subjectType := domain.SubjectTypeStudent
	subjectID := ""

	if student, err := s.students.GetByEmail(ctx, email); err == nil {
		subjectID = student.ID
	} else if errors.Is(err, pgx.ErrNoRows) {
		staff, staffErr := s.staff.GetByEmail(ctx, email)
		if staffErr != nil {
			if errors.Is(staffErr, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("account", map[string]any{"email": email})
			}
			return nil, apperrors.MapError(staffErr)
		}
		subjectType = domain.SubjectTypeStaff
		subjectID = staff.ID
	} else {
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Token:       uuid.NewString(),
		ExpiresAt:   s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPasswordReset,
		Actor:   events.Actor{Type: subjectType},
		Payload: events.PasswordResetPayload{Email: email, ExpiresAt: token.ExpiresAt},
	})
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid reset token", nil)
		}
		return apperrors.MapError(err)
	}
	if !token.Usable(s.now()) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := s.setPassword(ctx, AuthSubject{Type: token.SubjectType, ID: token.SubjectID}, "", hash, false); err != nil {
		return err
	}
	return apperrors.MapError(s.resets.MarkUsed(ctx, token.ID))
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.setPassword(ctx, subject, currentPassword, hash, true)
}

func (s *AuthService) setPassword(ctx context.Context, subject AuthSubject, currentPassword, hash string, verify bool) error {
	switch subject.Type {
	case domain.SubjectTypeStudent:
		student, err := s.students.GetByID(ctx, subject.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if verify && auth.ComparePassword(student.PasswordHash, currentPassword) != nil {
			return errInvalidCredentials
		}
		student.PasswordHash = hash
		return apperrors.MapError(s.students.Update(ctx, student))
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if verify && auth.ComparePassword(staff.PasswordHash, currentPassword) != nil {
			return errInvalidCredentials
		}
		staff.PasswordHash = hash
		return apperrors.MapError(s.staff.Update(ctx, staff))
	default:
		return apperrors.NewValidationError("unknown subject", map[string]any{"subject": subject.Type})
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

// splitFullName splits "Name Surname" on the last space.
func splitFullName(full string) (string, string) {
	full = strings.TrimSpace(full)
	idx := strings.LastIndex(full, " ")
	if idx < 0 {
		return full, ""
	}
	return strings.TrimSpace(full[:idx]), strings.TrimSpace(full[idx+1:])
}
