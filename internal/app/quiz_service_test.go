package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kuisin/internal/app"
	"kuisin/internal/domain"
	"kuisin/internal/infra/memory"
)

type fixture struct {
	store        *memory.Store
	cache        *memory.QuestionCache
	quizzes      *app.QuizService
	questions    *app.QuestionService
	participants *app.ParticipantService
	answers      *app.AnswerService
	now          time.Time
}

func newFixture() *fixture {
	store := memory.NewStore()
	cache := memory.NewQuestionCache(store, time.Minute)
	f := &fixture{
		store: store,
		cache: cache,
		now:   time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.quizzes = app.NewQuizService(store, store, cache).WithClock(clock)
	f.questions = app.NewQuestionService(store, store, cache).WithClock(clock)
	f.participants = app.NewParticipantService(store, store).WithClock(clock)
	f.answers = app.NewAnswerService(cache, store, store, store).WithClock(clock)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func (f *fixture) createQuiz(t *testing.T, title string) domain.Quiz {
	t.Helper()
	quiz, err := f.quizzes.Create(context.Background(), domain.QuizInput{
		Title:               strPtr(title),
		DurationPerQuestion: intPtr(30),
		DefaultPoints:       intPtr(10),
	}, "admin-1")
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (f *fixture) addQuestion(t *testing.T, quizID string, correct int, points *int) domain.Question {
	t.Helper()
	q, err := f.questions.Create(context.Background(), quizID, domain.QuestionInput{
		QuestionText:  strPtr("Pilih jawaban"),
		Options:       []domain.Option{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		CorrectOption: intPtr(correct),
		Points:        points,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	f.now = f.now.Add(time.Millisecond)
	return q
}

func TestCreateQuizAppliesDefaults(t *testing.T) {
	f := newFixture()
	quiz, err := f.quizzes.Create(context.Background(), domain.QuizInput{Title: strPtr("T")}, "admin-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !quiz.IsActive || quiz.DefaultPoints != 10 || quiz.DurationPerQuestion != 30 {
		t.Fatalf("expected defaults, got %+v", quiz)
	}
	if len(quiz.Code) != 8 || strings.Trim(quiz.Code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") != "" {
		t.Fatalf("expected 8-char A-Z0-9 code, got %q", quiz.Code)
	}
	if quiz.CreatedBy != "admin-1" {
		t.Fatalf("expected created_by admin-1, got %q", quiz.CreatedBy)
	}
}

func TestCreateQuizRequiresTitleAndUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var vErr *domain.ValidationError
	if _, err := f.quizzes.Create(ctx, domain.QuizInput{}, "admin-1"); !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	if _, err := f.quizzes.Create(ctx, domain.QuizInput{Title: strPtr("T")}, ""); !errors.As(err, &vErr) || vErr.Field != "userId" {
		t.Fatalf("expected userId validation error, got %v", err)
	}
}

// Code collisions are not retried: the second insert fails with the store error.
func TestCreateQuizDuplicateCodeIsNotRetried(t *testing.T) {
	f := newFixture()
	calls := 0
	f.quizzes.WithCodeGenerator(func() string {
		calls++
		return "SAMECODE"
	})
	ctx := context.Background()

	if _, err := f.quizzes.Create(ctx, domain.QuizInput{Title: strPtr("first")}, "admin-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.quizzes.Create(ctx, domain.QuizInput{Title: strPtr("second")}, "admin-1")
	if !errors.Is(err, domain.ErrDuplicateQuizCode) {
		t.Fatalf("expected ErrDuplicateQuizCode, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one code per create, got %d", calls)
	}
	quizzes, _ := f.quizzes.List(ctx)
	if len(quizzes) != 1 {
		t.Fatalf("expected only the first quiz stored, got %d", len(quizzes))
	}
}

func TestUpdateQuizKeepsCode(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "before")

	updated, err := f.quizzes.Update(context.Background(), quiz.ID, domain.QuizInput{
		Title:       strPtr("after"),
		Description: strPtr("desc"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "after" || updated.Description != "desc" || updated.Code != quiz.Code {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestUpdateQuizNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.quizzes.Update(context.Background(), "missing", domain.QuizInput{Title: strPtr("x")})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestToggleFlipsActive(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	ctx := context.Background()

	toggled, err := f.quizzes.Toggle(ctx, quiz.ID)
	if err != nil || toggled.IsActive {
		t.Fatalf("expected inactive after toggle, got %+v err=%v", toggled, err)
	}
	toggled, err = f.quizzes.Toggle(ctx, quiz.ID)
	if err != nil || !toggled.IsActive {
		t.Fatalf("expected active after second toggle, got %+v err=%v", toggled, err)
	}
}

func TestDeleteQuizRemovesQuestions(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q := f.addQuestion(t, quiz.ID, 0, nil)
	ctx := context.Background()

	// warm cache so deletion must invalidate it
	if _, err := f.cache.GetQuestion(ctx, q.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := f.quizzes.Delete(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.quizzes.Get(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz gone, got %v", err)
	}
	if _, err := f.cache.GetQuestion(ctx, q.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected cached question invalidated, got %v", err)
	}
}

func TestGetQuizJoinsQuestionsInOrder(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	first := f.addQuestion(t, quiz.ID, 0, nil)
	second := f.addQuestion(t, quiz.ID, 1, nil)

	got, err := f.quizzes.Get(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Questions) != 2 || got.Questions[0].ID != first.ID || got.Questions[1].ID != second.ID {
		t.Fatalf("expected questions in creation order, got %+v", got.Questions)
	}

	empty := f.createQuiz(t, "empty")
	got, err = f.quizzes.Get(context.Background(), empty.ID)
	if err != nil || got.Questions == nil || len(got.Questions) != 0 {
		t.Fatalf("expected empty non-nil questions, got %+v err=%v", got.Questions, err)
	}
}

func TestListQuizzesNewestFirst(t *testing.T) {
	f := newFixture()
	older := f.createQuiz(t, "older")
	f.now = f.now.Add(time.Minute)
	newer := f.createQuiz(t, "newer")

	quizzes, err := f.quizzes.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 2 || quizzes[0].ID != newer.ID || quizzes[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", quizzes)
	}
}
