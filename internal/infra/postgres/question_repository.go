package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"kuisin/internal/domain"
)

const questionColumns = `id, quiz_id, question_text, media_url, options, correct_option, points, time_limit, created_at`

func scanQuestion(row scanner) (domain.Question, error) {
	var (
		q       domain.Question
		options []byte
	)
	if err := row.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.MediaURL, &options,
		&q.CorrectOption, &q.Points, &q.TimeLimit, &q.CreatedAt); err != nil {
		return domain.Question{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions
		WHERE quiz_id = $1 ORDER BY created_at, id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) CountQuestions(ctx context.Context, quizID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions WHERE quiz_id = $1`, quizID).Scan(&n)
	return n, err
}

func (s *Store) CreateQuestion(ctx context.Context, q domain.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO questions (`+questionColumns+`)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)`,
		q.ID, q.QuizID, q.QuestionText, q.MediaURL, string(options),
		q.CorrectOption, q.Points, q.TimeLimit, q.CreatedAt)
	return err
}

func (s *Store) GetQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	q, err := scanQuestion(s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, questionID))
	return q, notFound(err, domain.ErrQuestionNotFound)
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE questions
		SET question_text = $2, media_url = $3, options = $4::jsonb, correct_option = $5, points = $6, time_limit = $7
		WHERE id = $1`,
		q.ID, q.QuestionText, q.MediaURL, string(options), q.CorrectOption, q.Points, q.TimeLimit)
	return mustAffect(tag, err, domain.ErrQuestionNotFound)
}

func (s *Store) DeleteQuestion(ctx context.Context, questionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
	return mustAffect(tag, err, domain.ErrQuestionNotFound)
}

func (s *Store) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID)
	return err
}
