package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/student-portal/internal/config"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/observability"
	"github.com/spec-kit/student-portal/internal/repository"
	"github.com/spec-kit/student-portal/internal/roster"
	apperrors "github.com/spec-kit/student-portal/pkg/util/errorutil"
)

// RosterService builds the dashboard roster feed. The feed always carries
// every student; searching, filtering and sorting happen in the page.
type RosterService struct {
	students    repository.StudentRepository
	assignments repository.AssignmentRepository
	cache       repository.RosterCache
	metrics     *observability.Metrics
	logger      *zap.Logger
	ttl         time.Duration
	language    string
}

// RosterDependencies bundles collaborators of the roster service.
type RosterDependencies struct {
	StudentRepo    repository.StudentRepository
	AssignmentRepo repository.AssignmentRepository
	Cache          repository.RosterCache
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(cfg config.RosterConfig, deps RosterDependencies) *RosterService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := deps.Cache
	if cache == nil {
		cache = repository.NewRosterCache(nil)
	}
	return &RosterService{
		students:    deps.StudentRepo,
		assignments: deps.AssignmentRepo,
		cache:       cache,
		metrics:     deps.Metrics,
		logger:      logger,
		ttl:         cfg.CacheTTL(),
		language:    cfg.Language,
	}
}

// ModeFor maps a staff role onto a roster privilege mode.
func ModeFor(staff *domain.StaffMember) roster.Mode {
	if staff.IsAdmin() {
		return roster.ModeElevated
	}
	return roster.ModeReduced
}

// Feed returns the roster for the viewer. Admins get the elevated schema with
// assigned staff names.
func (s *RosterService) Feed(ctx context.Context, viewer *domain.StaffMember) (*roster.Feed, error) {
	if viewer == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	mode := ModeFor(viewer)

	feed, hit, err := s.cache.Get(ctx, mode)
	if err != nil {
		s.logger.Warn("roster cache read failed", zap.String("mode", string(mode)), zap.Error(err))
	}
	s.metrics.RecordRosterCache(hit)
	if hit {
		s.metrics.RecordRosterFeed(string(mode), len(feed.Records))
		return feed, nil
	}

	feed, err = s.build(ctx, mode)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, feed, s.ttl); err != nil {
		s.logger.Warn("roster cache write failed", zap.String("mode", string(mode)), zap.Error(err))
	}
	s.metrics.RecordRosterFeed(string(mode), len(feed.Records))
	return feed, nil
}

// Invalidate drops cached feeds after students or links change.
func (s *RosterService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

func (s *RosterService) build(ctx context.Context, mode roster.Mode) (*roster.Feed, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var linked map[string][]domain.StaffMember
	if mode == roster.ModeElevated {
		linked, err = s.assignments.StaffByStudent(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	records := make([]roster.Record, 0, len(students))
	for i := range students {
		record := studentRecord(&students[i])
		record.Position = i
		if mode == roster.ModeElevated {
			record.Values[roster.FieldAssignedStaff] = staffNames(linked[students[i].ID])
		}
		records = append(records, record)
	}

	return &roster.Feed{
		Mode:     mode,
		Schema:   roster.SchemaFor(mode),
		Language: s.language,
		Records:  records,
	}, nil
}

func studentRecord(student *domain.Student) roster.Record {
	return roster.NewRecord(map[roster.Field]string{
		roster.FieldName:          student.FullName(),
		roster.FieldEmail:         student.Email,
		roster.FieldStudentNumber: student.StudentNumber,
		roster.FieldCourse:        student.Course,
		roster.FieldFaculty:       student.Faculty,
		roster.FieldYearOfStudy:   strconv.Itoa(student.YearOfStudy),
	})
}

func staffNames(staff []domain.StaffMember) string {
	names := make([]string, 0, len(staff))
	for i := range staff {
		names = append(names, staff[i].FullName())
	}
	return strings.Join(names, ", ")
}

// RegisterHandlers drops cached feeds whenever the roster content changes.
func (s *RosterService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, event events.Event) error {
		s.logger.Debug("invalidating roster cache", zap.String("event_type", string(event.Type)))
		return s.Invalidate(ctx)
	}
	dispatcher.Subscribe(events.EventStudentRegistered, invalidate)
	dispatcher.Subscribe(events.EventStudentAssigned, invalidate)
	dispatcher.Subscribe(events.EventStudentUnassigned, invalidate)
	dispatcher.Subscribe(events.EventStaffCreated, invalidate)
	dispatcher.Subscribe(events.EventStaffUpdated, invalidate)
}
