package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/repository"
	"github.com/spec-kit/student-portal/internal/roster"
)

// Verify interface compliance
var (
	_ repository.StudentRepository       = (*MockStudentRepository)(nil)
	_ repository.StaffRepository         = (*MockStaffRepository)(nil)
	_ repository.AssignmentRepository    = (*MockAssignmentRepository)(nil)
	_ repository.PasswordResetRepository = (*MockPasswordResetRepository)(nil)
	_ repository.RosterCache             = (*MockRosterCache)(nil)
)

// MockStudentRepository is an in-memory StudentRepository. List returns
// students in insertion order.
type MockStudentRepository struct {
	Students  map[string]*domain.Student
	Order     []string
	ListCalls int
	Err       error
}

func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{Students: make(map[string]*domain.Student)}
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	if m.Err != nil {
		return m.Err
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now()
	student.CreatedAt, student.UpdatedAt = now, now
	copied := *student
	m.Students[student.ID] = &copied
	m.Order = append(m.Order, student.ID)
	return nil
}

func (m *MockStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Students[student.ID]; !ok {
		return pgx.ErrNoRows
	}
	student.UpdatedAt = time.Now()
	copied := *student
	m.Students[student.ID] = &copied
	return nil
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	return m.find(func(s *domain.Student) bool { return s.ID == id })
}

func (m *MockStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	return m.find(func(s *domain.Student) bool { return strings.EqualFold(s.Email, email) })
}

func (m *MockStudentRepository) GetByUsername(ctx context.Context, username string) (*domain.Student, error) {
	return m.find(func(s *domain.Student) bool { return s.Username == username })
}

func (m *MockStudentRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Student, error) {
	return m.find(func(s *domain.Student) bool {
		return strings.EqualFold(s.Email, identifier) || s.Username == identifier
	})
}

func (m *MockStudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return existence(err)
}

func (m *MockStudentRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return existence(err)
}

func (m *MockStudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]domain.Student, 0, len(m.Order))
	for _, id := range m.Order {
		result = append(result, *m.Students[id])
	}
	return result, nil
}

func (m *MockStudentRepository) find(match func(*domain.Student) bool) (*domain.Student, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, id := range m.Order {
		if s := m.Students[id]; match(s) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// MockStaffRepository is an in-memory StaffRepository.
type MockStaffRepository struct {
	Staff map[string]*domain.StaffMember
	Err   error
}

func NewMockStaffRepository() *MockStaffRepository {
	return &MockStaffRepository{Staff: make(map[string]*domain.StaffMember)}
}

func (m *MockStaffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	if m.Err != nil {
		return m.Err
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now()
	staff.CreatedAt, staff.UpdatedAt = now, now
	copied := *staff
	m.Staff[staff.ID] = &copied
	return nil
}

func (m *MockStaffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Staff[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *staff
	m.Staff[staff.ID] = &copied
	return nil
}

func (m *MockStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	return m.find(func(s *domain.StaffMember) bool { return s.ID == id })
}

func (m *MockStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	return m.find(func(s *domain.StaffMember) bool { return strings.EqualFold(s.Email, email) })
}

func (m *MockStaffRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.StaffMember, error) {
	return m.find(func(s *domain.StaffMember) bool {
		return strings.EqualFold(s.Email, identifier) || s.Username == identifier
	})
}

func (m *MockStaffRepository) List(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []domain.StaffMember
	for _, s := range m.Staff {
		if filter.Role != nil && s.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Surname != result[j].Surname {
			return result[i].Surname < result[j].Surname
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *MockStaffRepository) find(match func(*domain.StaffMember) bool) (*domain.StaffMember, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.Staff {
		if match(s) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// MockAssignmentRepository keeps links keyed by staff and student ids. It
// resolves staff details through the Staff repository, like the SQL join.
type MockAssignmentRepository struct {
	Links map[[2]string]time.Time
	Staff *MockStaffRepository
	Err   error
}

func NewMockAssignmentRepository(staff *MockStaffRepository) *MockAssignmentRepository {
	return &MockAssignmentRepository{Links: make(map[[2]string]time.Time), Staff: staff}
}

func (m *MockAssignmentRepository) Link(ctx context.Context, staffID, studentID string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	key := [2]string{staffID, studentID}
	if _, ok := m.Links[key]; ok {
		return false, nil
	}
	m.Links[key] = time.Now()
	return true, nil
}

func (m *MockAssignmentRepository) Unlink(ctx context.Context, staffID, studentID string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	key := [2]string{staffID, studentID}
	if _, ok := m.Links[key]; !ok {
		return false, nil
	}
	delete(m.Links, key)
	return true, nil
}

func (m *MockAssignmentRepository) StaffByStudent(ctx context.Context) (map[string][]domain.StaffMember, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make(map[string][]domain.StaffMember)
	for key := range m.Links {
		staff, ok := m.Staff.Staff[key[0]]
		if !ok {
			continue
		}
		result[key[1]] = append(result[key[1]], *staff)
	}
	for id := range result {
		list := result[id]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Surname != list[j].Surname {
				return list[i].Surname < list[j].Surname
			}
			return list[i].Name < list[j].Name
		})
	}
	return result, nil
}

// MockPasswordResetRepository stores reset tokens by token string.
type MockPasswordResetRepository struct {
	Tokens map[string]*repository.PasswordResetToken
	Err    error
}

func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{Tokens: make(map[string]*repository.PasswordResetToken)}
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	if m.Err != nil {
		return m.Err
	}
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	copied := *token
	m.Tokens[token.Token] = &copied
	return nil
}

func (m *MockPasswordResetRepository) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.Tokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	for _, t := range m.Tokens {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// MockRosterCache is an in-memory RosterCache that ignores TTLs.
type MockRosterCache struct {
	Feeds       map[roster.Mode]*roster.Feed
	Invalidated int
	GetErr      error
}

func NewMockRosterCache() *MockRosterCache {
	return &MockRosterCache{Feeds: make(map[roster.Mode]*roster.Feed)}
}

func (m *MockRosterCache) Get(ctx context.Context, mode roster.Mode) (*roster.Feed, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	feed, ok := m.Feeds[mode]
	return feed, ok, nil
}

func (m *MockRosterCache) Set(ctx context.Context, feed *roster.Feed, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.Feeds[feed.Mode] = feed
	return nil
}

func (m *MockRosterCache) Invalidate(ctx context.Context) error {
	m.Invalidated++
	m.Feeds = make(map[roster.Mode]*roster.Feed)
	return nil
}

func existence(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return false, err
}
