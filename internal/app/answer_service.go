package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kuisin/internal/domain"
)

// AnswerService scores submissions and accumulates participant scores.
type AnswerService struct {
	questions    QuestionCache
	questionRepo QuestionRepository
	participants ParticipantRepository
	answers      AnswerRepository
	now          func() time.Time
}

func NewAnswerService(cache QuestionCache, questions QuestionRepository, participants ParticipantRepository, answers AnswerRepository) *AnswerService {
	return &AnswerService{
		questions:    cache,
		questionRepo: questions,
		participants: participants,
		answers:      answers,
		now:          time.Now,
	}
}

// WithClock is test-only for deterministic completion times.
func (s *AnswerService) WithClock(now func() time.Time) *AnswerService {
	s.now = now
	return s
}

// Submit records one answer and adds its points to the participant's score.
//
// The writes are sequential and uncompensated: if the score update fails after the
// answer insert, the score stays understated. The score increment is a plain
// read-modify-write and relies on one in-flight submission per participant.
func (s *AnswerService) Submit(ctx context.Context, participantID, questionID string, selected int) (domain.SubmitResult, error) {
	if err := required("participantId", participantID); err != nil {
		return domain.SubmitResult{}, err
	}
	if err := required("questionId", questionID); err != nil {
		return domain.SubmitResult{}, err
	}

	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	participant, err := s.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	// A question only counts for participants of its own quiz.
	if question.QuizID != participant.QuizID {
		return domain.SubmitResult{}, domain.ErrQuestionNotFound
	}

	correct := selected == question.CorrectOption
	earned := 0
	if correct {
		earned = question.Points
	}

	answer := domain.Answer{
		ID:             uuid.NewString(),
		ParticipantID:  participantID,
		QuestionID:     questionID,
		SelectedOption: selected,
		IsCorrect:      correct,
		PointsEarned:   earned,
		CreatedAt:      s.now(),
	}
	if err := s.answers.CreateAnswer(ctx, answer); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("insert answer: %w", err)
	}

	participant.Score += earned

	result := domain.SubmitResult{
		Answer:       answer,
		IsCorrect:    correct,
		PointsEarned: earned,
		NewScore:     participant.Score,
	}

	if participant.CompletionTime == nil {
		done, err := s.answeredAll(ctx, participant)
		if err != nil {
			return domain.SubmitResult{}, err
		}
		if done {
			elapsed := int(s.now().Sub(participant.CreatedAt).Seconds())
			if elapsed < 0 {
				elapsed = 0
			}
			participant.CompletionTime = &elapsed
			result.Completed = true
			result.CompletionTime = &elapsed
		}
	}

	if err := s.participants.UpdateParticipant(ctx, participant); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("update score: %w", err)
	}
	return result, nil
}

func (s *AnswerService) answeredAll(ctx context.Context, participant domain.Participant) (bool, error) {
	total, err := s.questionRepo.CountQuestions(ctx, participant.QuizID)
	if err != nil {
		return false, fmt.Errorf("count questions: %w", err)
	}
	answered, err := s.answers.CountAnswers(ctx, participant.ID)
	if err != nil {
		return false, fmt.Errorf("count answers: %w", err)
	}
	return total > 0 && answered >= total, nil
}

// List returns the participant's answers in submission order.
func (s *AnswerService) List(ctx context.Context, participantID string) ([]domain.Answer, error) {
	if err := required("participantId", participantID); err != nil {
		return nil, err
	}
	return s.answers.ListAnswers(ctx, participantID)
}

// Details joins the participant's answers with their questions for the admin view.
// A non-empty quizID must match the participant's quiz.
func (s *AnswerService) Details(ctx context.Context, participantID, quizID string) (domain.ParticipantDetails, error) {
	participant, err := s.participants.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.ParticipantDetails{}, err
	}
	if quizID != "" && participant.QuizID != quizID {
		return domain.ParticipantDetails{}, domain.ErrParticipantNotFound
	}
	answers, err := s.answers.ListAnswers(ctx, participantID)
	if err != nil {
		return domain.ParticipantDetails{}, fmt.Errorf("list answers: %w", err)
	}

	details := domain.ParticipantDetails{Participant: participant, Answers: make([]domain.AnswerDetail, 0, len(answers))}
	for _, a := range answers {
		q, err := s.questionRepo.GetQuestion(ctx, a.QuestionID)
		if err != nil {
			return domain.ParticipantDetails{}, err
		}
		details.Answers = append(details.Answers, domain.AnswerDetail{
			ID:             a.ID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      a.IsCorrect,
			PointsEarned:   a.PointsEarned,
			CreatedAt:      a.CreatedAt,
			Question: domain.AnsweredQuestion{
				ID:            q.ID,
				QuestionText:  q.QuestionText,
				Options:       q.Options,
				CorrectOption: q.CorrectOption,
			},
		})
	}
	return details, nil
}
