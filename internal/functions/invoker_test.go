package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"kuisin/internal/domain"
	"kuisin/internal/infra/memory"
	"kuisin/internal/logging"
)

type harness struct {
	t     *testing.T
	inv   *Invoker
	token string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	svc := NewServices(store, memory.NewQuestionCache(store, time.Minute), memory.NewSessionStore(),
		AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})
	if _, err := svc.Auth.CreateAdmin(context.Background(), "admin@kuisin.id", "Admin", "rahasia123"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	h := &harness{t: t, inv: NewInvoker(svc, logging.Discard())}

	status, env := h.call(ResourceAuth, "", map[string]any{"action": "login", "email": "admin@kuisin.id", "password": "rahasia123"})
	if status != http.StatusOK {
		t.Fatalf("login: %d %s", status, env.Error)
	}
	var res struct {
		Token string `json:"token"`
	}
	h.decode(env.Data, &res)
	h.token = "Bearer " + res.Token
	return h
}

func (h *harness) call(resource, token string, body map[string]any) (int, Envelope) {
	h.t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		h.t.Fatalf("marshal: %v", err)
	}
	return h.inv.Invoke(context.Background(), resource, token, raw)
}

// decode round-trips data through JSON so tests see the wire shape.
func (h *harness) decode(data any, out any) {
	h.t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		h.t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		h.t.Fatalf("unmarshal data: %v", err)
	}
}

func (h *harness) mustOK(resource, token string, body map[string]any, out any) {
	h.t.Helper()
	status, env := h.call(resource, token, body)
	if status != http.StatusOK || !env.Success {
		h.t.Fatalf("%s %v: status %d error %q", resource, body["action"], status, env.Error)
	}
	if out != nil {
		h.decode(env.Data, out)
	}
}

func (h *harness) setupQuiz() (domain.Quiz, domain.Question) {
	h.t.Helper()
	var quiz domain.Quiz
	h.mustOK(ResourceQuizzes, h.token, map[string]any{
		"action":   "create",
		"quizData": map[string]any{"title": "T", "duration_per_question": 30, "default_points": 10},
	}, &quiz)
	var q domain.Question
	h.mustOK(ResourceQuestions, h.token, map[string]any{
		"action": "create",
		"quizId": quiz.ID,
		"questionData": map[string]any{
			"question_text":  "Pilih A",
			"options":        []map[string]string{{"id": "a", "text": "A"}, {"id": "b", "text": "B"}},
			"correct_option": 0,
			"points":         10,
		},
	}, &q)
	return quiz, q
}

func (h *harness) join(code string) domain.Participant {
	h.t.Helper()
	var p domain.Participant
	h.mustOK(ResourceParticipants, "", map[string]any{"action": "join", "quizCode": code, "participantName": "Budi"}, &p)
	return p
}

func TestEndToEndScoring(t *testing.T) {
	cases := []struct {
		name     string
		selected int
		correct  bool
		points   int
	}{
		{"correct", 0, true, 10},
		{"wrong", 1, false, 0},
		{"timeout", domain.NoAnswer, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			quiz, q := h.setupQuiz()
			p := h.join(quiz.Code)

			var res domain.SubmitResult
			h.mustOK(ResourceAnswers, "", map[string]any{
				"action":        "submit",
				"participantId": p.ID,
				"questionId":    q.ID,
				"answerData":    map[string]any{"selected_option": tc.selected},
			}, &res)
			if res.IsCorrect != tc.correct || res.PointsEarned != tc.points || res.NewScore != tc.points {
				t.Fatalf("unexpected result %+v", res)
			}
			if !res.Completed {
				t.Fatalf("expected single-question quiz to complete")
			}

			var board []domain.Participant
			h.mustOK(ResourceParticipants, "", map[string]any{"action": "leaderboard", "quizId": quiz.ID}, &board)
			if len(board) != 1 || board[0].Score != tc.points {
				t.Fatalf("expected participant score %d, got %+v", tc.points, board)
			}
		})
	}
}

func TestJoinReturnsQuizSummary(t *testing.T) {
	h := newHarness(t)
	quiz, _ := h.setupQuiz()

	status, env := h.call(ResourceParticipants, "", map[string]any{"action": "join", "quizCode": quiz.Code, "participantName": "Budi"})
	if status != http.StatusOK {
		t.Fatalf("join: %d %s", status, env.Error)
	}
	var summary domain.QuizSummary
	h.decode(env.Quiz, &summary)
	if summary.ID != quiz.ID || summary.Title != "T" {
		t.Fatalf("unexpected quiz summary %+v", summary)
	}
}

func TestJoinErrorsAreDistinct(t *testing.T) {
	h := newHarness(t)
	quiz, _ := h.setupQuiz()

	status, env := h.call(ResourceParticipants, "", map[string]any{"action": "join", "quizCode": "ZZZZ9999", "participantName": "Budi"})
	if status != http.StatusBadRequest || env.Error != "Kode kuis tidak valid" {
		t.Fatalf("expected invalid code 400, got %d %q", status, env.Error)
	}

	h.mustOK(ResourceQuizzes, h.token, map[string]any{"action": "toggle", "quizId": quiz.ID}, nil)
	status, env = h.call(ResourceParticipants, "", map[string]any{"action": "join", "quizCode": quiz.Code, "participantName": "Budi"})
	if status != http.StatusBadRequest || env.Error != "Kuis ini tidak aktif" {
		t.Fatalf("expected inactive 400, got %d %q", status, env.Error)
	}

	var all []domain.Participant
	h.mustOK(ResourceParticipants, h.token, map[string]any{"action": "list", "quizId": quiz.ID}, &all)
	if len(all) != 0 {
		t.Fatalf("expected no participants created, got %d", len(all))
	}
}

func TestAdminActionsRequireToken(t *testing.T) {
	h := newHarness(t)
	quiz, q := h.setupQuiz()

	guarded := []struct {
		resource string
		body     map[string]any
	}{
		{ResourceQuizzes, map[string]any{"action": "list"}},
		{ResourceQuizzes, map[string]any{"action": "create", "quizData": map[string]any{"title": "x"}}},
		{ResourceQuizzes, map[string]any{"action": "toggle", "quizId": quiz.ID}},
		{ResourceQuizzes, map[string]any{"action": "delete", "quizId": quiz.ID}},
		{ResourceQuestions, map[string]any{"action": "delete", "questionId": q.ID}},
		{ResourceParticipants, map[string]any{"action": "list", "quizId": quiz.ID}},
		{ResourceAnswers, map[string]any{"action": "participantDetails", "participantId": "p"}},
		{ResourceWaitlist, map[string]any{"action": "list"}},
		{ResourceAuth, map[string]any{"action": "me"}},
	}
	for _, g := range guarded {
		status, env := h.call(g.resource, "", g.body)
		if status != http.StatusUnauthorized || env.Success {
			t.Fatalf("%s %v: expected 401, got %d", g.resource, g.body["action"], status)
		}
	}

	// get stays public for the play flow
	var got domain.QuizWithQuestions
	h.mustOK(ResourceQuizzes, "", map[string]any{"action": "get", "quizId": quiz.ID}, &got)
	if len(got.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got.Questions))
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	h.mustOK(ResourceAuth, h.token, map[string]any{"action": "logout"}, nil)

	status, _ := h.call(ResourceQuizzes, h.token, map[string]any{"action": "list"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestCreateQuizDefaultsUserToCaller(t *testing.T) {
	h := newHarness(t)
	var admin domain.Admin
	h.mustOK(ResourceAuth, h.token, map[string]any{"action": "me"}, &admin)

	quiz, _ := h.setupQuiz()
	if quiz.CreatedBy != admin.ID {
		t.Fatalf("expected created_by %s, got %s", admin.ID, quiz.CreatedBy)
	}
}

func TestUnknownActionAndResource(t *testing.T) {
	h := newHarness(t)

	status, env := h.call(ResourceQuizzes, h.token, map[string]any{"action": "explode"})
	if status != http.StatusBadRequest || env.Error != "Invalid action" {
		t.Fatalf("expected 400 invalid action, got %d %q", status, env.Error)
	}
	status, _ = h.call("nope", "", map[string]any{"action": "list"})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown resource, got %d", status)
	}
	status, _ = h.inv.Invoke(context.Background(), ResourceQuizzes, "", []byte("{not json"))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", status)
	}
}

func TestValidationAndNotFound(t *testing.T) {
	h := newHarness(t)
	quiz, _ := h.setupQuiz()

	status, env := h.call(ResourceQuestions, h.token, map[string]any{
		"action":       "create",
		"quizId":       quiz.ID,
		"questionData": map[string]any{"question_text": "no options", "correct_option": 0},
	})
	if status != http.StatusBadRequest || env.Error != "options is required" {
		t.Fatalf("expected options validation, got %d %q", status, env.Error)
	}

	status, _ = h.call(ResourceQuizzes, "", map[string]any{"action": "get", "quizId": "missing"})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}

	status, env = h.call(ResourceAuth, "", map[string]any{"action": "login", "email": "admin@kuisin.id", "password": "123"})
	if status != http.StatusBadRequest || env.Error != "Password minimal 6 karakter" {
		t.Fatalf("expected password validation, got %d %q", status, env.Error)
	}
	status, env = h.call(ResourceAuth, "", map[string]any{"action": "login", "email": "admin@kuisin.id", "password": "salah123"})
	if status != http.StatusUnauthorized || env.Error != "Email atau password salah" {
		t.Fatalf("expected bad credentials 401, got %d %q", status, env.Error)
	}

	p := h.join(quiz.Code)
	status, _ = h.call(ResourceAnswers, "", map[string]any{"action": "submit", "participantId": p.ID, "questionId": "missing", "answerData": map[string]any{"selected_option": 0}})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing question, got %d", status)
	}
	status, _ = h.call(ResourceAnswers, "", map[string]any{"action": "submit", "participantId": p.ID, "questionId": "q", "answerData": map[string]any{}})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing selected_option, got %d", status)
	}
}

func TestWaitlistFlow(t *testing.T) {
	h := newHarness(t)
	var entry domain.WaitlistEntry
	h.mustOK(ResourceWaitlist, "", map[string]any{"action": "join", "name": "Sari", "email": "sari@sekolah.id", "organization": "SMA 1"}, &entry)

	status, env := h.call(ResourceWaitlist, "", map[string]any{"action": "join", "name": "Sari", "email": "sari@sekolah.id"})
	if status != http.StatusBadRequest || env.Error != "Email sudah terdaftar" {
		t.Fatalf("expected duplicate email 400, got %d %q", status, env.Error)
	}

	var invited domain.WaitlistEntry
	h.mustOK(ResourceWaitlist, h.token, map[string]any{"action": "invite", "entryId": entry.ID}, &invited)
	if invited.Status != domain.WaitlistInvited {
		t.Fatalf("expected invited, got %s", invited.Status)
	}
}

func TestParticipantDetailsOverWire(t *testing.T) {
	h := newHarness(t)
	quiz, q := h.setupQuiz()
	p := h.join(quiz.Code)
	h.mustOK(ResourceAnswers, "", map[string]any{
		"action": "submit", "participantId": p.ID, "questionId": q.ID,
		"answerData": map[string]any{"selected_option": 1},
	}, nil)

	status, env := h.call(ResourceAnswers, h.token, map[string]any{"action": "participantDetails", "participantId": p.ID, "quizId": quiz.ID})
	if status != http.StatusOK {
		t.Fatalf("details: %d %s", status, env.Error)
	}
	var wire struct {
		Answers []struct {
			SelectedOption int `json:"selected_option"`
			Questions      struct {
				QuestionText string `json:"question_text"`
			} `json:"questions"`
		} `json:"answers"`
	}
	h.decode(env.Data, &wire)
	if len(wire.Answers) != 1 || wire.Answers[0].SelectedOption != 1 || wire.Answers[0].Questions.QuestionText != "Pilih A" {
		t.Fatalf("unexpected details wire shape %+v", wire)
	}
}
