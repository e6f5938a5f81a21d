// Package client is a typed caller for the function endpoints. It owns the
// local session: the admin token is attached to every request and the
// participant identity is remembered between join and completion.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kuisin/internal/domain"
)

const functionsPath = "/functions/v1/"

// Client calls /functions/v1/{resource} with a JSON body carrying the action.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for baseURL. A nil session keeps state in memory.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Quiz    json.RawMessage `json:"quiz"`
	Error   string          `json:"error"`
}

type request map[string]any

// call posts payload to resource and decodes data into out when out is non-nil.
func (c *Client) call(ctx context.Context, resource string, payload request, out any) (envelope, error) {
	var env envelope
	body, err := json.Marshal(payload)
	if err != nil {
		return env, fmt.Errorf("marshal %s request: %w", resource, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+functionsPath+resource, bytes.NewReader(body))
	if err != nil {
		return env, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, &NetworkError{Err: err}
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return env, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode %s response: %w", resource, err)
		}
	}
	return env, nil
}

// Quizzes

func (c *Client) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var out []domain.Quiz
	_, err := c.call(ctx, "quizzes", request{"action": "list"}, &out)
	return out, err
}

// CreateQuiz creates a quiz owned by the logged-in admin.
func (c *Client) CreateQuiz(ctx context.Context, in domain.QuizInput) (domain.Quiz, error) {
	var out domain.Quiz
	_, err := c.call(ctx, "quizzes", request{"action": "create", "quizData": in}, &out)
	return out, err
}

func (c *Client) UpdateQuiz(ctx context.Context, quizID string, in domain.QuizInput) (domain.Quiz, error) {
	var out domain.Quiz
	_, err := c.call(ctx, "quizzes", request{"action": "update", "quizId": quizID, "quizData": in}, &out)
	return out, err
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID string) error {
	_, err := c.call(ctx, "quizzes", request{"action": "delete", "quizId": quizID}, nil)
	return err
}

func (c *Client) ToggleQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var out domain.Quiz
	_, err := c.call(ctx, "quizzes", request{"action": "toggle", "quizId": quizID}, &out)
	return out, err
}

// GetQuiz needs no login; participants use it to load questions.
func (c *Client) GetQuiz(ctx context.Context, quizID string) (domain.QuizWithQuestions, error) {
	var out domain.QuizWithQuestions
	_, err := c.call(ctx, "quizzes", request{"action": "get", "quizId": quizID}, &out)
	return out, err
}

// Questions

func (c *Client) ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	var out []domain.Question
	_, err := c.call(ctx, "questions", request{"action": "list", "quizId": quizID}, &out)
	return out, err
}

func (c *Client) CreateQuestion(ctx context.Context, quizID string, in domain.QuestionInput) (domain.Question, error) {
	var out domain.Question
	_, err := c.call(ctx, "questions", request{"action": "create", "quizId": quizID, "questionData": in}, &out)
	return out, err
}

func (c *Client) UpdateQuestion(ctx context.Context, questionID string, in domain.QuestionInput) (domain.Question, error) {
	var out domain.Question
	_, err := c.call(ctx, "questions", request{"action": "update", "questionId": questionID, "questionData": in}, &out)
	return out, err
}

func (c *Client) DeleteQuestion(ctx context.Context, questionID string) error {
	_, err := c.call(ctx, "questions", request{"action": "delete", "questionId": questionID}, nil)
	return err
}

func (c *Client) GetQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	var out domain.Question
	_, err := c.call(ctx, "questions", request{"action": "get", "questionId": questionID}, &out)
	return out, err
}

// Participants

// Join registers name on the quiz with code and remembers the participant
// in the session until completion.
func (c *Client) Join(ctx context.Context, code, name string) (domain.JoinResult, error) {
	var res domain.JoinResult
	env, err := c.call(ctx, "participants", request{"action": "join", "quizCode": code, "participantName": name}, &res.Participant)
	if err != nil {
		return res, err
	}
	if len(env.Quiz) > 0 {
		if err := json.Unmarshal(env.Quiz, &res.Quiz); err != nil {
			return res, fmt.Errorf("decode joined quiz: %w", err)
		}
	}
	err = c.session.SetParticipant(ParticipantSession{
		ID:       res.Participant.ID,
		Name:     res.Participant.Name,
		QuizID:   res.Participant.QuizID,
		JoinedAt: res.Participant.CreatedAt,
	})
	return res, err
}

func (c *Client) ListParticipants(ctx context.Context, quizID string) ([]domain.Participant, error) {
	var out []domain.Participant
	_, err := c.call(ctx, "participants", request{"action": "list", "quizId": quizID}, &out)
	return out, err
}

func (c *Client) UpdateParticipant(ctx context.Context, participantID string, patch domain.ParticipantPatch) (domain.Participant, error) {
	var out domain.Participant
	_, err := c.call(ctx, "participants", request{"action": "update", "participantId": participantID, "participantData": patch}, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, quizID string) ([]domain.Participant, error) {
	var out []domain.Participant
	_, err := c.call(ctx, "participants", request{"action": "leaderboard", "quizId": quizID}, &out)
	return out, err
}

// Answers

func (c *Client) SubmitAnswer(ctx context.Context, participantID, questionID string, selected int) (domain.SubmitResult, error) {
	var out domain.SubmitResult
	_, err := c.call(ctx, "answers", request{
		"action":        "submit",
		"participantId": participantID,
		"questionId":    questionID,
		"answerData":    map[string]int{"selected_option": selected},
	}, &out)
	return out, err
}

func (c *Client) ListAnswers(ctx context.Context, participantID string) ([]domain.Answer, error) {
	var out []domain.Answer
	_, err := c.call(ctx, "answers", request{"action": "list", "participantId": participantID}, &out)
	return out, err
}

func (c *Client) ParticipantDetails(ctx context.Context, participantID, quizID string) (domain.ParticipantDetails, error) {
	var out domain.ParticipantDetails
	_, err := c.call(ctx, "answers", request{"action": "participantDetails", "participantId": participantID, "quizId": quizID}, &out)
	return out, err
}

// Auth

type loginResponse struct {
	Token string       `json:"token"`
	User  domain.Admin `json:"user"`
}

// Login stores the issued token so later admin calls are authorized.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Admin, error) {
	var out loginResponse
	if _, err := c.call(ctx, "auth", request{"action": "login", "email": email, "password": password}, &out); err != nil {
		return domain.Admin{}, err
	}
	return out.User, c.session.SetAdmin(AdminSession{Token: out.Token, User: out.User})
}

// Logout revokes the server session. The local admin session is cleared even
// when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, "auth", request{"action": "logout"}, nil)
	if clearErr := c.session.ClearAdmin(); err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (domain.Admin, error) {
	var out domain.Admin
	_, err := c.call(ctx, "auth", request{"action": "me"}, &out)
	return out, err
}

// Waitlist

func (c *Client) JoinWaitlist(ctx context.Context, in domain.WaitlistInput) (domain.WaitlistEntry, error) {
	var out domain.WaitlistEntry
	_, err := c.call(ctx, "waitlist", request{
		"action":       "join",
		"name":         in.Name,
		"email":        in.Email,
		"organization": in.Organization,
		"purpose":      in.Purpose,
	}, &out)
	return out, err
}

func (c *Client) ListWaitlist(ctx context.Context) ([]domain.WaitlistEntry, error) {
	var out []domain.WaitlistEntry
	_, err := c.call(ctx, "waitlist", request{"action": "list"}, &out)
	return out, err
}

func (c *Client) InviteWaitlist(ctx context.Context, entryID string) (domain.WaitlistEntry, error) {
	var out domain.WaitlistEntry
	_, err := c.call(ctx, "waitlist", request{"action": "invite", "entryId": entryID}, &out)
	return out, err
}
