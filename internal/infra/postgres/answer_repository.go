package postgres

import (
	"context"
	"fmt"

	"kuisin/internal/domain"
)

func (s *Store) CreateAnswer(ctx context.Context, a domain.Answer) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO answers
		(id, participant_id, question_id, selected_option, is_correct, points_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ParticipantID, a.QuestionID, a.SelectedOption, a.IsCorrect, a.PointsEarned, a.CreatedAt)
	return err
}

func (s *Store) ListAnswers(ctx context.Context, participantID string) ([]domain.Answer, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, participant_id, question_id, selected_option, is_correct, points_earned, created_at
		FROM answers WHERE participant_id = $1 ORDER BY seq`, participantID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]domain.Answer, 0)
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.ParticipantID, &a.QuestionID, &a.SelectedOption,
			&a.IsCorrect, &a.PointsEarned, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// CountAnswers counts distinct questions answered so a repeat submission cannot
// complete a quiz early.
func (s *Store) CountAnswers(ctx context.Context, participantID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(DISTINCT question_id) FROM answers WHERE participant_id = $1`, participantID).Scan(&n)
	return n, err
}
