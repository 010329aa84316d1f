package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-portal/internal/domain"
)

// ErrSessionClosed is returned when answers arrive for a session that is no
// longer in progress.
var ErrSessionClosed = errors.New("test session already completed")

// TestSessionRepository stores test sittings, their answers and results.
type TestSessionRepository interface {
	Create(ctx context.Context, session *domain.TestSession) error
	GetByID(ctx context.Context, id string) (*domain.TestSession, error)
	// Complete stores answers and the result and closes the session in one
	// transaction. It returns ErrSessionClosed when the session is not in progress.
	Complete(ctx context.Context, sessionID string, answers []domain.SessionAnswer, result *domain.TestResult) error
	ResultBySession(ctx context.Context, sessionID string) (*domain.TestResult, error)
}

type testSessionRepository struct {
	pool *pgxpool.Pool
}

// NewTestSessionRepository constructs repository.
func NewTestSessionRepository(pool *pgxpool.Pool) TestSessionRepository {
	return &testSessionRepository{pool: pool}
}

func (r *testSessionRepository) Create(ctx context.Context, session *domain.TestSession) error {
	const query = `
        INSERT INTO test_sessions (id, student_id, assessment_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING started_at`
	return r.pool.QueryRow(ctx, query,
		session.ID,
		session.StudentID,
		session.AssessmentID,
		session.Status,
	).Scan(&session.StartedAt)
}

func (r *testSessionRepository) GetByID(ctx context.Context, id string) (*domain.TestSession, error) {
	const query = `
        SELECT id, student_id, assessment_id, status, started_at, ended_at
        FROM test_sessions WHERE id=$1`
	var s domain.TestSession
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.StudentID,
		&s.AssessmentID,
		&s.Status,
		&s.StartedAt,
		&s.EndedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *testSessionRepository) Complete(ctx context.Context, sessionID string, answers []domain.SessionAnswer, result *domain.TestResult) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const closeSession = `
            UPDATE test_sessions SET status=$1, ended_at=NOW()
            WHERE id=$2 AND status=$3`
		cmd, err := tx.Exec(ctx, closeSession, domain.SessionCompleted, sessionID, domain.SessionInProgress)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrSessionClosed
		}

		batch := &pgx.Batch{}
		for _, a := range answers {
			batch.Queue(`
                INSERT INTO session_answers (id, session_id, question_id, selected_option_id, free_text_answer)
                VALUES ($1,$2,$3,$4,$5)`,
				a.ID, sessionID, a.QuestionID, a.SelectedOptionID, a.FreeText)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}

		const insertResult = `
            INSERT INTO test_results (id, session_id, numbers_score, logic_score, shapes_score,
                disability_likelihood, outcome_message, staff_breakdown)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
            RETURNING created_at`
		return tx.QueryRow(ctx, insertResult,
			result.ID,
			sessionID,
			result.NumbersScore,
			result.LogicScore,
			result.ShapesScore,
			result.DisabilityLikelihood,
			result.OutcomeMessage,
			result.StaffBreakdown,
		).Scan(&result.CreatedAt)
	})
}

func (r *testSessionRepository) ResultBySession(ctx context.Context, sessionID string) (*domain.TestResult, error) {
	const query = `
        SELECT id, session_id, numbers_score, logic_score, shapes_score,
            disability_likelihood, outcome_message, staff_breakdown, created_at
        FROM test_results WHERE session_id=$1`
	var res domain.TestResult
	if err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&res.ID,
		&res.SessionID,
		&res.NumbersScore,
		&res.LogicScore,
		&res.ShapesScore,
		&res.DisabilityLikelihood,
		&res.OutcomeMessage,
		&res.StaffBreakdown,
		&res.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
