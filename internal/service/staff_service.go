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
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

// StaffService manages staff member accounts. Every operation is ADMIN only.
type StaffService struct {
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// StaffDependencies bundles collaborators of the staff service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
}

// StaffListFilters define listing parameters.
type StaffListFilters struct {
	Role   *domain.StaffRole
	Active *bool
	Limit  int
	Offset int
}

// NewStaffMember carries the fields of an account being created.
type NewStaffMember struct {
	Username string
	Name     string
	Surname  string
	Email    string
	Password string
	Role     domain.StaffRole
}

// StaffUpdate carries the mutable staff fields. Nil fields are left unchanged.
type StaffUpdate struct {
	Name    *string
	Surname *string
	Email   *string
	Role    *domain.StaffRole
	Active  *bool
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor *domain.StaffMember) error {
	if actor == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateStaffMember creates a new active staff account.
func (s *StaffService) CreateStaffMember(ctx context.Context, actor *domain.StaffMember, in NewStaffMember) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureUnique(ctx, "", email); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "", in.Username); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.StaffRoleStaff
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.StaffMember{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStaffEvent(ctx, events.EventStaffCreated, actor.ID, staff)
	return staff, nil
}

// ListStaffMembers lists staff with filters.
func (s *StaffService) ListStaffMembers(ctx context.Context, actor *domain.StaffMember, filters StaffListFilters) ([]domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	list, err := s.staff.List(ctx, repository.StaffFilter{
		Role:   filters.Role,
		Active: filters.Active,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetStaffMemberByID fetches staff.
func (s *StaffService) GetStaffMemberByID(ctx context.Context, actor *domain.StaffMember, id string) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// UpdateStaffMember updates staff details.
func (s *StaffService) UpdateStaffMember(ctx context.Context, actor *domain.StaffMember, staffID string, in StaffUpdate) (*domain.StaffMember, error) {
	staff, err := s.GetStaffMemberByID(ctx, actor, staffID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != staff.Email {
			if err := s.ensureUnique(ctx, staff.ID, email); err != nil {
				return nil, err
			}
		}
		staff.Email = email
	}
	if in.Name != nil {
		staff.Name = strings.TrimSpace(*in.Name)
	}
	if in.Surname != nil {
		staff.Surname = strings.TrimSpace(*in.Surname)
	}
	if in.Role != nil {
		staff.Role = *in.Role
	}
	if in.Active != nil {
		if !*in.Active && staff.ID == actor.ID {
			return nil, apperrors.NewConflict("cannot deactivate yourself", nil)
		}
		staff.Active = *in.Active
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStaffEvent(ctx, events.EventStaffUpdated, actor.ID, staff)
	return staff, nil
}

// ensureUnique fails when identifier belongs to a staff member other than selfID.
func (s *StaffService) ensureUnique(ctx context.Context, selfID, identifier string) error {
	existing, err := s.staff.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewConflict("staff already exists", map[string]any{"identifier": identifier})
}

func (s *StaffService) publishStaffEvent(ctx context.Context, kind events.EventType, actorID string, staff *domain.StaffMember) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      kind,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorID},
		Timestamp: time.Now(),
		Payload: events.StaffChangedPayload{
			StaffID:   staff.ID,
			StaffName: staff.FullName(),
			Role:      staff.Role,
			Active:    staff.Active,
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
