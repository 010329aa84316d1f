package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/repository"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

// AssignmentService links staff members to the students they follow up on.
type AssignmentService struct {
	students    repository.StudentRepository
	staff       repository.StaffRepository
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	StudentRepo    repository.StudentRepository
	StaffRepo      repository.StaffRepository
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		students:    deps.StudentRepo,
		staff:       deps.StaffRepo,
		assignments: deps.AssignmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Assign links a staff member to a student (ADMIN). Assigning an existing
// pair is a no-op and publishes nothing.
func (s *AssignmentService) Assign(ctx context.Context, actor *domain.StaffMember, staffID, studentID string) (*domain.StaffStudentLink, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	assignee, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("assignee inactive", map[string]any{"staff_id": staffID})
	}
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}

	created, err := s.assignments.Link(ctx, staffID, studentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	link := &domain.StaffStudentLink{StaffID: staffID, StudentID: studentID, CreatedAt: time.Now()}
	if created {
		s.publishAssignmentEvent(ctx, events.EventStudentAssigned, actor.ID, assignee, studentID)
	}
	return link, nil
}

// Unassign removes a staff-to-student link (ADMIN).
func (s *AssignmentService) Unassign(ctx context.Context, actor *domain.StaffMember, staffID, studentID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	assignee, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return err
	}
	removed, err := s.assignments.Unlink(ctx, staffID, studentID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !removed {
		return apperrors.NewNotFound("assignment", map[string]any{"staff_id": staffID, "student_id": studentID})
	}
	s.publishAssignmentEvent(ctx, events.EventStudentUnassigned, actor.ID, assignee, studentID)
	return nil
}

func (s *AssignmentService) loadStaff(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

func (s *AssignmentService) ensureStudent(ctx context.Context, studentID string) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("student", map[string]any{"student_id": studentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, kind events.EventType, actorID string, assignee *domain.StaffMember, studentID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      kind,
		StudentID: studentID,
		Actor:     events.Actor{Type: domain.SubjectTypeStaff, StaffID: &actorID},
		Timestamp: time.Now(),
		Payload: events.StudentAssignmentPayload{
			StaffID:   assignee.ID,
			StaffName: assignee.FullName(),
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
