package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-portal/internal/domain"
)

// AssessmentRepository stores screening tests with their questions.
type AssessmentRepository interface {
	// Create inserts the assessment, its questions and their options in one transaction.
	Create(ctx context.Context, assessment *domain.Assessment, questions []domain.Question) error
	List(ctx context.Context) ([]domain.Assessment, error)
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
	// Questions returns the questions ordered by part then position, options attached.
	Questions(ctx context.Context, assessmentID string) ([]domain.Question, error)
}

type assessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository constructs repository.
func NewAssessmentRepository(pool *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepository{pool: pool}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *domain.Assessment, questions []domain.Question) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertAssessment = `
            INSERT INTO assessments (id, name, description)
            VALUES ($1,$2,$3)
            RETURNING created_at`
		if err := tx.QueryRow(ctx, insertAssessment,
			assessment.ID,
			assessment.Name,
			assessment.Description,
		).Scan(&assessment.CreatedAt); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, q := range questions {
			batch.Queue(`
                INSERT INTO assessment_questions (id, assessment_id, part, question_text, question_type, position)
                VALUES ($1,$2,$3,$4,$5,$6)`,
				q.ID, assessment.ID, q.Part, q.Text, q.Type, q.Position)
			for _, opt := range q.Options {
				batch.Queue(`
                    INSERT INTO answer_options (id, question_id, option_text, is_correct, position)
                    VALUES ($1,$2,$3,$4,$5)`,
					opt.ID, q.ID, opt.Text, opt.Correct, opt.Position)
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *assessmentRepository) List(ctx context.Context) ([]domain.Assessment, error) {
	const query = `SELECT id, name, description, created_at FROM assessments ORDER BY name, created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assessment
	for rows.Next() {
		var a domain.Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	const query = `SELECT id, name, description, created_at FROM assessments WHERE id=$1`
	var a domain.Assessment
	if err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepository) Questions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	const questionQuery = `
        SELECT id, assessment_id, part, question_text, question_type, position
        FROM assessment_questions
        WHERE assessment_id=$1
        ORDER BY part, position`

	rows, err := r.pool.Query(ctx, questionQuery, assessmentID)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	index := make(map[string]int)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.AssessmentID, &q.Part, &q.Text, &q.Type, &q.Position); err != nil {
			rows.Close()
			return nil, err
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const optionQuery = `
        SELECT o.id, o.question_id, o.option_text, o.is_correct, o.position
        FROM answer_options o
        JOIN assessment_questions q ON q.id = o.question_id
        WHERE q.assessment_id=$1
        ORDER BY o.question_id, o.position`

	optRows, err := r.pool.Query(ctx, optionQuery, assessmentID)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt domain.AnswerOption
		if err := optRows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.Correct, &opt.Position); err != nil {
			return nil, err
		}
		if i, ok := index[opt.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}
	return questions, optRows.Err()
}
