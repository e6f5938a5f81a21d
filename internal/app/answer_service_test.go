package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kuisin/internal/domain"
)

func TestSubmitCorrectAnswer(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q := f.addQuestion(t, quiz.ID, 0, intPtr(10))
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")

	res, err := f.answers.Submit(ctx, joined.Participant.ID, q.ID, 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.IsCorrect || res.PointsEarned != 10 || res.NewScore != 10 {
		t.Fatalf("expected correct with 10 points, got %+v", res)
	}
	p, _ := f.store.GetParticipant(ctx, joined.Participant.ID)
	if p.Score != 10 {
		t.Fatalf("expected stored score 10, got %d", p.Score)
	}
}

func TestSubmitWrongAnswer(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q := f.addQuestion(t, quiz.ID, 0, intPtr(10))
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")

	res, err := f.answers.Submit(ctx, joined.Participant.ID, q.ID, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.IsCorrect || res.PointsEarned != 0 || res.NewScore != 0 {
		t.Fatalf("expected incorrect with 0 points, got %+v", res)
	}
}

func TestSubmitNoAnswerSentinel(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q := f.addQuestion(t, quiz.ID, 0, intPtr(10))
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")

	res, err := f.answers.Submit(ctx, joined.Participant.ID, q.ID, domain.NoAnswer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.IsCorrect || res.PointsEarned != 0 || res.Answer.SelectedOption != domain.NoAnswer {
		t.Fatalf("expected recorded no-answer, got %+v", res)
	}
}

// Score after a run equals the sum of points_earned over the participant's answers.
func TestScoreAccumulatesAndCompletes(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q1 := f.addQuestion(t, quiz.ID, 0, intPtr(10))
	q2 := f.addQuestion(t, quiz.ID, 1, intPtr(20))
	q3 := f.addQuestion(t, quiz.ID, 0, intPtr(5))
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")
	pid := joined.Participant.ID

	steps := []struct {
		question string
		selected int
	}{
		{q1.ID, 0},
		{q2.ID, 0},
		{q3.ID, 0},
	}
	for i, step := range steps {
		f.now = f.now.Add(10 * time.Second)
		res, err := f.answers.Submit(ctx, pid, step.question, step.selected)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if last := i == len(steps)-1; res.Completed != last {
			t.Fatalf("submit %d: completed=%v", i, res.Completed)
		}
	}

	answers, err := f.answers.List(ctx, pid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sum := 0
	for _, a := range answers {
		sum += a.PointsEarned
	}
	p, _ := f.store.GetParticipant(ctx, pid)
	if p.Score != sum || sum != 15 {
		t.Fatalf("expected score %d to equal answer sum %d (15)", p.Score, sum)
	}
	if p.CompletionTime == nil || *p.CompletionTime != 30 {
		t.Fatalf("expected completion_time 30, got %v", p.CompletionTime)
	}
	if answers[0].QuestionID != q1.ID || answers[2].QuestionID != q3.ID {
		t.Fatalf("expected answers in submission order")
	}
}

func TestSubmitUnknownQuestion(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")

	_, err := f.answers.Submit(ctx, joined.Participant.ID, "missing", 0)
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestParticipantDetails(t *testing.T) {
	f := newFixture()
	quiz := f.createQuiz(t, "T")
	q := f.addQuestion(t, quiz.ID, 1, nil)
	ctx := context.Background()
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")
	_, _ = f.answers.Submit(ctx, joined.Participant.ID, q.ID, 1)

	details, err := f.answers.Details(ctx, joined.Participant.ID, quiz.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Participant.Score != 10 || len(details.Answers) != 1 {
		t.Fatalf("unexpected details %+v", details)
	}
	got := details.Answers[0]
	if got.Question.ID != q.ID || got.Question.QuestionText != q.QuestionText || got.Question.CorrectOption != 1 || len(got.Question.Options) != 2 {
		t.Fatalf("expected joined question, got %+v", got.Question)
	}

	if _, err := f.answers.Details(ctx, joined.Participant.ID, "other-quiz"); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected mismatch to be not found, got %v", err)
	}
}

func TestSubmitRejectsQuestionFromAnotherQuiz(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	quiz := f.createQuiz(t, "T")
	f.addQuestion(t, quiz.ID, 0, intPtr(10))
	other := f.createQuiz(t, "Lain")
	foreign := f.addQuestion(t, other.ID, 0, intPtr(50))
	joined, _ := f.participants.Join(ctx, quiz.Code, "Budi")

	_, err := f.answers.Submit(ctx, joined.Participant.ID, foreign.ID, 0)
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	p, _ := f.store.GetParticipant(ctx, joined.Participant.ID)
	if p.Score != 0 || p.CompletionTime != nil {
		t.Fatalf("foreign answer must not change the participant, got %+v", p)
	}
	if answers, _ := f.answers.List(ctx, joined.Participant.ID); len(answers) != 0 {
		t.Fatalf("expected no recorded answer, got %+v", answers)
	}
}
