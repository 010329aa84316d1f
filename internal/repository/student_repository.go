package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-portal/internal/domain"
)

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	GetByUsername(ctx context.Context, username string) (*domain.Student, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `id, student_number, name, surname, username, email, course, faculty, year_of_study, password_hash, created_at, updated_at`

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(
		&s.ID,
		&s.StudentNumber,
		&s.Name,
		&s.Surname,
		&s.Username,
		&s.Email,
		&s.Course,
		&s.Faculty,
		&s.YearOfStudy,
		&s.PasswordHash,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (id, student_number, name, surname, username, email, course, faculty, year_of_study, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		student.ID,
		student.StudentNumber,
		student.Name,
		student.Surname,
		student.Username,
		student.Email,
		student.Course,
		student.Faculty,
		student.YearOfStudy,
		student.PasswordHash,
	).Scan(&student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students
        SET name=$1, surname=$2, username=$3, email=$4, course=$5, faculty=$6, year_of_study=$7, password_hash=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		student.Name,
		student.Surname,
		student.Username,
		student.Email,
		student.Course,
		student.Faculty,
		student.YearOfStudy,
		student.PasswordHash,
		student.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id=$1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE lower(email)=lower($1)`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

func (r *studentRepository) GetByUsername(ctx context.Context, username string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE username=$1`
	return scanStudent(r.pool.QueryRow(ctx, query, username))
}

func (r *studentRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE lower(email)=lower($1) OR username=$1 LIMIT 1`
	return scanStudent(r.pool.QueryRow(ctx, query, identifier))
}

func (r *studentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE lower(email)=lower($1))`, email).Scan(&exists)
	return exists, err
}

func (r *studentRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE username=$1)`, username).Scan(&exists)
	return exists, err
}

// List returns every student in registration order. The dashboard roster is
// never paginated.
func (r *studentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}
