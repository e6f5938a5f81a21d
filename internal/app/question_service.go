package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kuisin/internal/domain"
	"kuisin/internal/logging"
)

// QuestionService manages the questions of a quiz while it is being edited.
type QuestionService struct {
	quizzes   QuizRepository
	questions QuestionRepository
	cache     QuestionCache
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuestionService(quizzes QuizRepository, questions QuestionRepository, cache QuestionCache) *QuestionService {
	return &QuestionService{quizzes: quizzes, questions: questions, cache: cache, logger: logging.Discard(), now: time.Now}
}

func (s *QuestionService) WithLogger(logger *slog.Logger) *QuestionService {
	s.logger = logger
	return s
}

// WithClock is test-only for deterministic timestamps.
func (s *QuestionService) WithClock(now func() time.Time) *QuestionService {
	s.now = now
	return s
}

func (s *QuestionService) List(ctx context.Context, quizID string) ([]domain.Question, error) {
	if err := required("quizId", quizID); err != nil {
		return nil, err
	}
	return s.questions.ListQuestions(ctx, quizID)
}

// Create validates presence of question_text, options and correct_option. Option
// count and the range of correct_option are not checked.
func (s *QuestionService) Create(ctx context.Context, quizID string, in domain.QuestionInput) (domain.Question, error) {
	if err := required("quizId", quizID); err != nil {
		return domain.Question{}, err
	}
	if err := validateStruct(in); err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		Points:    quiz.DefaultPoints,
		CreatedAt: s.now(),
	}
	in.Apply(&question)
	if err := s.questions.CreateQuestion(ctx, question); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// Update applies the set fields. Bounds are checked as on create; presence is not.
func (s *QuestionService) Update(ctx context.Context, questionID string, in domain.QuestionInput) (domain.Question, error) {
	if err := validateQuestionPatch(in); err != nil {
		return domain.Question{}, err
	}
	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	in.Apply(&question)
	if err := s.questions.UpdateQuestion(ctx, question); err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	s.invalidate(ctx, questionID)
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, questionID string) error {
	if err := s.questions.DeleteQuestion(ctx, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.invalidate(ctx, questionID)
	return nil
}

// invalidate drops the cached scoring view. A failure leaves the stale entry
// until its TTL runs out, so it is logged rather than failing the committed write.
func (s *QuestionService) invalidate(ctx context.Context, questionID string) {
	if err := s.cache.Invalidate(ctx, questionID); err != nil {
		s.logger.Error("question cache invalidation failed", "question_id", questionID, "err", err)
	}
}

func (s *QuestionService) Get(ctx context.Context, questionID string) (domain.Question, error) {
	return s.questions.GetQuestion(ctx, questionID)
}
