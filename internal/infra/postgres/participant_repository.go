package postgres

import (
	"context"
	"fmt"

	"kuisin/internal/domain"
)

const participantColumns = `id, quiz_id, name, score, completion_time, created_at`

func scanParticipant(row scanner) (domain.Participant, error) {
	var p domain.Participant
	err := row.Scan(&p.ID, &p.QuizID, &p.Name, &p.Score, &p.CompletionTime, &p.CreatedAt)
	return p, err
}

func (s *Store) CreateParticipant(ctx context.Context, p domain.Participant) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO participants (`+participantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.QuizID, p.Name, p.Score, p.CompletionTime, p.CreatedAt)
	return err
}

func (s *Store) GetParticipant(ctx context.Context, participantID string) (domain.Participant, error) {
	p, err := scanParticipant(s.pool.QueryRow(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, participantID))
	return p, notFound(err, domain.ErrParticipantNotFound)
}

func (s *Store) UpdateParticipant(ctx context.Context, p domain.Participant) error {
	tag, err := s.pool.Exec(ctx, `UPDATE participants SET name = $2, score = $3, completion_time = $4 WHERE id = $1`,
		p.ID, p.Name, p.Score, p.CompletionTime)
	return mustAffect(tag, err, domain.ErrParticipantNotFound)
}

// RankParticipants orders like domain.RanksBefore. LIMIT NULL returns every row.
func (s *Store) RankParticipants(ctx context.Context, quizID string, limit int) ([]domain.Participant, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := s.pool.Query(ctx, `SELECT `+participantColumns+` FROM participants
		WHERE quiz_id = $1
		ORDER BY score DESC, completion_time ASC NULLS LAST, created_at ASC, id ASC
		LIMIT $2`, quizID, lim)
	if err != nil {
		return nil, fmt.Errorf("rank participants: %w", err)
	}
	defer rows.Close()

	participants := make([]domain.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
