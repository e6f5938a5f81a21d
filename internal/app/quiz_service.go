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

// QuizService contains the admin quiz management use cases.
type QuizService struct {
	quizzes   QuizRepository
	questions QuestionRepository
	cache     QuestionCache
	codes     CodeGenerator
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuizService(quizzes QuizRepository, questions QuestionRepository, cache QuestionCache) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		cache:     cache,
		codes:     NewRandomCodeGenerator(),
		logger:    logging.Discard(),
		now:       time.Now,
	}
}

// WithCodeGenerator swaps the join code source; tests use it to force collisions.
func (s *QuizService) WithCodeGenerator(codes CodeGenerator) *QuizService {
	s.codes = codes
	return s
}

func (s *QuizService) WithLogger(logger *slog.Logger) *QuizService {
	s.logger = logger
	return s
}

// WithClock is test-only for deterministic timestamps.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// List returns all quizzes, newest first.
func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

// Create inserts an active quiz with a freshly generated code. A code collision is
// not retried; it surfaces as the store's error.
func (s *QuizService) Create(ctx context.Context, in domain.QuizInput, createdBy string) (domain.Quiz, error) {
	if in.Title == nil {
		return domain.Quiz{}, domain.Invalid("title", "is required")
	}
	if err := validateStruct(in); err != nil {
		return domain.Quiz{}, err
	}
	if err := required("userId", createdBy); err != nil {
		return domain.Quiz{}, err
	}

	quiz := domain.Quiz{
		ID:                  uuid.NewString(),
		DefaultPoints:       domain.DefaultPoints,
		DurationPerQuestion: domain.DefaultDurationPerQuestion,
		CreatedBy:           createdBy,
		CreatedAt:           s.now(),
	}
	in.Apply(&quiz)
	quiz.Code = s.codes()
	quiz.IsActive = true

	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// Update mutates the quiz fields; the join code is immutable.
func (s *QuizService) Update(ctx context.Context, quizID string, in domain.QuizInput) (domain.Quiz, error) {
	if err := validateStruct(in); err != nil {
		return domain.Quiz{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	in.Apply(&quiz)
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	return quiz, nil
}

// Delete removes the quiz's questions and then the quiz. The two steps are not atomic.
func (s *QuizService) Delete(ctx context.Context, quizID string) error {
	questions, err := s.questions.ListQuestions(ctx, quizID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if err := s.questions.DeleteQuestionsByQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	for _, q := range questions {
		if err := s.cache.Invalidate(ctx, q.ID); err != nil {
			s.logger.Error("question cache invalidation failed", "quiz_id", quizID, "question_id", q.ID, "err", err)
		}
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// Toggle flips is_active with a plain read-modify-write.
func (s *QuizService) Toggle(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz.IsActive = !quiz.IsActive
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("toggle quiz: %w", err)
	}
	return quiz, nil
}

// Get returns the quiz joined with its questions in creation order.
func (s *QuizService) Get(ctx context.Context, quizID string) (domain.QuizWithQuestions, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizWithQuestions{}, err
	}
	questions, err := s.questions.ListQuestions(ctx, quizID)
	if err != nil {
		return domain.QuizWithQuestions{}, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return domain.QuizWithQuestions{Quiz: quiz, Questions: questions}, nil
}
