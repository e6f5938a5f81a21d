package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kuisin/internal/domain"
)

// ParticipantService covers joining a quiz and reading its standings.
type ParticipantService struct {
	quizzes      QuizRepository
	participants ParticipantRepository
	now          func() time.Time
}

func NewParticipantService(quizzes QuizRepository, participants ParticipantRepository) *ParticipantService {
	return &ParticipantService{quizzes: quizzes, participants: participants, now: time.Now}
}

// WithClock is test-only for deterministic timestamps.
func (s *ParticipantService) WithClock(now func() time.Time) *ParticipantService {
	s.now = now
	return s
}

// List returns every participant of the quiz in leaderboard order.
func (s *ParticipantService) List(ctx context.Context, quizID string) ([]domain.Participant, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return s.participants.RankParticipants(ctx, quizID, 0)
}

// Join creates a zero-score participant for the active quiz carrying code.
// The code is matched case-insensitively by normalizing to upper case.
func (s *ParticipantService) Join(ctx context.Context, code, name string) (domain.JoinResult, error) {
	if err := required("participantName", name); err != nil {
		return domain.JoinResult{}, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.JoinResult{}, domain.ErrInvalidQuizCode
	}

	quiz, err := s.quizzes.GetQuizByCode(ctx, code)
	if errors.Is(err, domain.ErrQuizNotFound) {
		return domain.JoinResult{}, domain.ErrInvalidQuizCode
	}
	if err != nil {
		return domain.JoinResult{}, fmt.Errorf("lookup quiz code: %w", err)
	}
	if !quiz.IsActive {
		return domain.JoinResult{}, domain.ErrQuizInactive
	}

	participant := domain.Participant{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		Name:      strings.TrimSpace(name),
		Score:     0,
		CreatedAt: s.now(),
	}
	if err := s.participants.CreateParticipant(ctx, participant); err != nil {
		return domain.JoinResult{}, fmt.Errorf("create participant: %w", err)
	}
	return domain.JoinResult{
		Participant: participant,
		Quiz:        domain.QuizSummary{ID: quiz.ID, Title: quiz.Title, IsActive: quiz.IsActive},
	}, nil
}

// Update applies an arbitrary field patch; the play flow uses it to record completion_time.
func (s *ParticipantService) Update(ctx context.Context, participantID string, patch domain.ParticipantPatch) (domain.Participant, error) {
	participant, err := s.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.Participant{}, err
	}
	patch.Apply(&participant)
	if err := s.participants.UpdateParticipant(ctx, participant); err != nil {
		return domain.Participant{}, fmt.Errorf("update participant: %w", err)
	}
	return participant, nil
}

// Leaderboard returns the top participants of the quiz.
func (s *ParticipantService) Leaderboard(ctx context.Context, quizID string) ([]domain.Participant, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return s.participants.RankParticipants(ctx, quizID, domain.LeaderboardLimit)
}
