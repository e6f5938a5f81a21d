// Package functions implements the JSON function endpoints. Every resource takes
// {"action": ..., ...fields} and answers with an Envelope.
package functions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kuisin/internal/app"
	"kuisin/internal/domain"
)

// Resource names as they appear in the function path.
const (
	ResourceQuizzes      = "quizzes"
	ResourceQuestions    = "questions"
	ResourceParticipants = "participants"
	ResourceAnswers      = "answers"
	ResourceAuth         = "auth"
	ResourceWaitlist     = "waitlist"
)

// ErrUnknownResource is returned for a function name nothing serves.
var ErrUnknownResource = errors.New("unknown function")

// Envelope is the response body of every function.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Quiz    any    `json:"quiz,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Services bundles the use cases the functions dispatch to.
type Services struct {
	Quizzes      *app.QuizService
	Questions    *app.QuestionService
	Participants *app.ParticipantService
	Answers      *app.AnswerService
	Auth         *app.AuthService
	Waitlist     *app.WaitlistService
}

// AuthConfig configures admin token issuance.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// NewServices wires every use case against one store.
func NewServices(store app.Store, cache app.QuestionCache, sessions app.SessionStore, auth AuthConfig) Services {
	return Services{
		Quizzes:      app.NewQuizService(store, store, cache),
		Questions:    app.NewQuestionService(store, store, cache),
		Participants: app.NewParticipantService(store, store),
		Answers:      app.NewAnswerService(cache, store, store, store),
		Auth:         app.NewAuthService(store, sessions, auth.Secret, auth.TokenTTL),
		Waitlist:     app.NewWaitlistService(store),
	}
}

// WithLogger routes use-case logs (cache invalidation failures) to logger.
func (s Services) WithLogger(logger *slog.Logger) Services {
	s.Quizzes.WithLogger(logger)
	s.Questions.WithLogger(logger)
	return s
}

// Invoker routes one function call to its resource handler.
type Invoker struct {
	svc    Services
	logger *slog.Logger
}

func NewInvoker(svc Services, logger *slog.Logger) *Invoker {
	return &Invoker{svc: svc, logger: logger}
}

// Invoke runs resource with the raw JSON body. authorization is the bearer token
// (with or without the "Bearer " prefix), empty for anonymous callers.
func (i *Invoker) Invoke(ctx context.Context, resource, authorization string, body []byte) (int, Envelope) {
	action, err := readAction(body)
	if err != nil {
		return i.fail(resource, action, err)
	}
	caller := newCaller(i.svc.Auth, authorization)

	var env Envelope
	switch resource {
	case ResourceQuizzes:
		env, err = i.quizzes(ctx, caller, action, body)
	case ResourceQuestions:
		env, err = i.questions(ctx, caller, action, body)
	case ResourceParticipants:
		env, err = i.participants(ctx, caller, action, body)
	case ResourceAnswers:
		env, err = i.answers(ctx, caller, action, body)
	case ResourceAuth:
		env, err = i.auth(ctx, caller, action, body)
	case ResourceWaitlist:
		env, err = i.waitlist(ctx, caller, action, body)
	default:
		err = ErrUnknownResource
	}
	if err != nil {
		return i.fail(resource, action, err)
	}
	return http.StatusOK, env
}

func ok(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func (i *Invoker) fail(resource, action string, err error) (int, Envelope) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		i.logger.Error("function failed", "resource", resource, "action", action, "err", err)
	} else {
		i.logger.Debug("function rejected", "resource", resource, "action", action, "status", status, "err", err)
	}
	return status, Envelope{Success: false, Error: msg}
}

// classify maps an error to its status code and user-facing message.
func classify(err error) (int, string) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidQuizCode):
		return http.StatusBadRequest, "Kode kuis tidak valid"
	case errors.Is(err, domain.ErrQuizInactive):
		return http.StatusBadRequest, "Kuis ini tidak aktif"
	case errors.Is(err, domain.ErrUnknownAction):
		return http.StatusBadRequest, "Invalid action"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email sudah terdaftar"
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Email atau password salah"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrUnknownResource):
		return http.StatusNotFound, err.Error()
	case domain.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (i *Invoker) quizzes(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeQuizRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}
	if _, public := req.(getQuiz); !public {
		if _, err := caller.Admin(ctx); err != nil {
			return Envelope{}, err
		}
	}

	svc := i.svc.Quizzes
	switch r := req.(type) {
	case listQuizzes:
		quizzes, err := svc.List(ctx)
		return ok(quizzes), err
	case createQuiz:
		userID := r.UserID
		if userID == "" {
			admin, _ := caller.Admin(ctx)
			userID = admin.AdminID
		}
		quiz, err := svc.Create(ctx, r.QuizData, userID)
		return ok(quiz), err
	case updateQuiz:
		quiz, err := svc.Update(ctx, r.QuizID, r.QuizData)
		return ok(quiz), err
	case deleteQuiz:
		return ok(nil), svc.Delete(ctx, r.QuizID)
	case toggleQuiz:
		quiz, err := svc.Toggle(ctx, r.QuizID)
		return ok(quiz), err
	case getQuiz:
		quiz, err := svc.Get(ctx, r.QuizID)
		return ok(quiz), err
	}
	return Envelope{}, domain.ErrUnknownAction
}

func (i *Invoker) questions(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeQuestionRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}
	switch req.(type) {
	case createQuestion, updateQuestion, deleteQuestion:
		if _, err := caller.Admin(ctx); err != nil {
			return Envelope{}, err
		}
	}

	svc := i.svc.Questions
	switch r := req.(type) {
	case listQuestions:
		questions, err := svc.List(ctx, r.QuizID)
		return ok(questions), err
	case createQuestion:
		q, err := svc.Create(ctx, r.QuizID, r.QuestionData)
		return ok(q), err
	case updateQuestion:
		q, err := svc.Update(ctx, r.QuestionID, r.QuestionData)
		return ok(q), err
	case deleteQuestion:
		return ok(nil), svc.Delete(ctx, r.QuestionID)
	case getQuestion:
		q, err := svc.Get(ctx, r.QuestionID)
		return ok(q), err
	}
	return Envelope{}, domain.ErrUnknownAction
}

func (i *Invoker) participants(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeParticipantRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}

	svc := i.svc.Participants
	switch r := req.(type) {
	case listParticipants:
		if _, err := caller.Admin(ctx); err != nil {
			return Envelope{}, err
		}
		participants, err := svc.List(ctx, r.QuizID)
		return ok(participants), err
	case joinQuiz:
		res, err := svc.Join(ctx, r.QuizCode, r.ParticipantName)
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{Success: true, Data: res.Participant, Quiz: res.Quiz}, nil
	case updateParticipant:
		p, err := svc.Update(ctx, r.ParticipantID, r.ParticipantData)
		return ok(p), err
	case leaderboard:
		board, err := svc.Leaderboard(ctx, r.QuizID)
		return ok(board), err
	}
	return Envelope{}, domain.ErrUnknownAction
}

func (i *Invoker) answers(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeAnswerRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}

	svc := i.svc.Answers
	switch r := req.(type) {
	case submitAnswer:
		if r.AnswerData.SelectedOption == nil {
			return Envelope{}, domain.Invalid("selected_option", "is required")
		}
		res, err := svc.Submit(ctx, r.ParticipantID, r.QuestionID, *r.AnswerData.SelectedOption)
		return ok(res), err
	case listAnswers:
		answers, err := svc.List(ctx, r.ParticipantID)
		return ok(answers), err
	case participantDetails:
		if _, err := caller.Admin(ctx); err != nil {
			return Envelope{}, err
		}
		details, err := svc.Details(ctx, r.ParticipantID, r.QuizID)
		return ok(details), err
	}
	return Envelope{}, domain.ErrUnknownAction
}

func (i *Invoker) auth(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeAuthRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}

	svc := i.svc.Auth
	switch r := req.(type) {
	case login:
		res, err := svc.Login(ctx, r.Email, r.Password)
		return ok(res), err
	case logout:
		principal, err := caller.Admin(ctx)
		if err != nil {
			return Envelope{}, err
		}
		return ok(nil), svc.Logout(ctx, principal)
	case me:
		principal, err := caller.Admin(ctx)
		if err != nil {
			return Envelope{}, err
		}
		admin, err := svc.Me(ctx, principal)
		return ok(admin), err
	}
	return Envelope{}, domain.ErrUnknownAction
}

func (i *Invoker) waitlist(ctx context.Context, caller *Caller, action string, body []byte) (Envelope, error) {
	req, err := decodeWaitlistRequest(action, body)
	if err != nil {
		return Envelope{}, err
	}
	if _, public := req.(joinWaitlist); !public {
		if _, err := caller.Admin(ctx); err != nil {
			return Envelope{}, err
		}
	}

	svc := i.svc.Waitlist
	switch r := req.(type) {
	case joinWaitlist:
		entry, err := svc.Join(ctx, r.WaitlistInput)
		return ok(entry), err
	case listWaitlist:
		entries, err := svc.List(ctx)
		return ok(entries), err
	case inviteWaitlist:
		entry, err := svc.Invite(ctx, r.EntryID)
		return ok(entry), err
	}
	return Envelope{}, domain.ErrUnknownAction
}
