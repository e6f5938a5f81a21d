package postgres

import (
	"context"
	"fmt"

	"kuisin/internal/domain"
)

const quizColumns = `id, title, description, code, default_points, duration_per_question, is_active, created_by, created_at`

func scanQuiz(row scanner) (domain.Quiz, error) {
	var q domain.Quiz
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Code, &q.DefaultPoints,
		&q.DurationPerQuestion, &q.IsActive, &q.CreatedBy, &q.CreatedAt)
	return q, err
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+quizColumns+` FROM quizzes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]domain.Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *Store) CreateQuiz(ctx context.Context, q domain.Quiz) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO quizzes (`+quizColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		q.ID, q.Title, q.Description, q.Code, q.DefaultPoints,
		q.DurationPerQuestion, q.IsActive, q.CreatedBy, q.CreatedAt)
	return uniqueConflict(err, "quizzes_code_key", domain.ErrDuplicateQuizCode)
}

func (s *Store) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	q, err := scanQuiz(s.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, quizID))
	return q, notFound(err, domain.ErrQuizNotFound)
}

func (s *Store) GetQuizByCode(ctx context.Context, code string) (domain.Quiz, error) {
	q, err := scanQuiz(s.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE code = $1`, code))
	return q, notFound(err, domain.ErrQuizNotFound)
}

func (s *Store) UpdateQuiz(ctx context.Context, q domain.Quiz) error {
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes
		SET title = $2, description = $3, default_points = $4, duration_per_question = $5, is_active = $6
		WHERE id = $1`,
		q.ID, q.Title, q.Description, q.DefaultPoints, q.DurationPerQuestion, q.IsActive)
	return mustAffect(tag, err, domain.ErrQuizNotFound)
}

// DeleteQuiz removes the quiz; participants and their answers go with it by cascade.
func (s *Store) DeleteQuiz(ctx context.Context, quizID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID)
	return mustAffect(tag, err, domain.ErrQuizNotFound)
}
