package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-portal/internal/domain"
)

// AssignmentRepository manages staff-to-student links.
type AssignmentRepository interface {
	// Link returns false when the link already existed.
	Link(ctx context.Context, staffID, studentID string) (bool, error)
	// Unlink returns false when there was nothing to remove.
	Unlink(ctx context.Context, staffID, studentID string) (bool, error)
	// StaffByStudent groups linked staff members by student id, ordered by surname.
	StaffByStudent(ctx context.Context) (map[string][]domain.StaffMember, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository constructs repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Link(ctx context.Context, staffID, studentID string) (bool, error) {
	const query = `
        INSERT INTO staff_student_links (staff_id, student_id)
        VALUES ($1,$2)
        ON CONFLICT (staff_id, student_id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, staffID, studentID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *assignmentRepository) Unlink(ctx context.Context, staffID, studentID string) (bool, error) {
	const query = `DELETE FROM staff_student_links WHERE staff_id=$1 AND student_id=$2`
	cmd, err := r.pool.Exec(ctx, query, staffID, studentID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *assignmentRepository) StaffByStudent(ctx context.Context) (map[string][]domain.StaffMember, error) {
	const query = `
        SELECT l.student_id, s.id, s.username, s.name, s.surname, s.email, s.role, s.active_flag
        FROM staff_student_links l
        JOIN staff_members s ON s.id = l.staff_id
        ORDER BY l.student_id, s.surname, s.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]domain.StaffMember)
	for rows.Next() {
		var studentID string
		var staff domain.StaffMember
		if err := rows.Scan(
			&studentID,
			&staff.ID,
			&staff.Username,
			&staff.Name,
			&staff.Surname,
			&staff.Email,
			&staff.Role,
			&staff.Active,
		); err != nil {
			return nil, err
		}
		result[studentID] = append(result[studentID], staff)
	}
	return result, rows.Err()
}
