package app

import (
	"context"
	"time"

	"kuisin/internal/domain"
)

// QuizRepository persists quizzes. Implementations must return domain.ErrQuizNotFound
// for missing rows and domain.ErrDuplicateQuizCode on a code collision.
type QuizRepository interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	GetQuizByCode(ctx context.Context, code string) (domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// QuestionRepository persists questions. Options cross this boundary as a structured list.
type QuestionRepository interface {
	ListQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
	CountQuestions(ctx context.Context, quizID string) (int, error)
	CreateQuestion(ctx context.Context, question domain.Question) error
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
	UpdateQuestion(ctx context.Context, question domain.Question) error
	DeleteQuestion(ctx context.Context, questionID string) error
	DeleteQuestionsByQuiz(ctx context.Context, quizID string) error
}

// ParticipantRepository persists participants.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant domain.Participant) error
	GetParticipant(ctx context.Context, participantID string) (domain.Participant, error)
	UpdateParticipant(ctx context.Context, participant domain.Participant) error
	// RankParticipants returns the quiz's participants in leaderboard order; limit <= 0 means all.
	RankParticipants(ctx context.Context, quizID string, limit int) ([]domain.Participant, error)
}

// AnswerRepository persists answers. Rows are never updated or deleted by the app.
type AnswerRepository interface {
	CreateAnswer(ctx context.Context, answer domain.Answer) error
	ListAnswers(ctx context.Context, participantID string) ([]domain.Answer, error)
	CountAnswers(ctx context.Context, participantID string) (int, error)
}

// AdminRepository persists admin accounts.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin domain.Admin) error
	GetAdmin(ctx context.Context, adminID string) (domain.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error)
}

// WaitlistRepository persists early-access requests.
type WaitlistRepository interface {
	CreateWaitlistEntry(ctx context.Context, entry domain.WaitlistEntry) error
	ListWaitlistEntries(ctx context.Context) ([]domain.WaitlistEntry, error)
	GetWaitlistEntry(ctx context.Context, entryID string) (domain.WaitlistEntry, error)
	UpdateWaitlistEntry(ctx context.Context, entry domain.WaitlistEntry) error
}

// Store bundles every table the service touches.
type Store interface {
	QuizRepository
	QuestionRepository
	ParticipantRepository
	AnswerRepository
	AdminRepository
	WaitlistRepository
}

// QuestionCache serves the scoring view of questions (quiz, correct option, points)
// and falls back to the store on a miss.
type QuestionCache interface {
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
	Invalidate(ctx context.Context, questionID string) error
}

// SessionStore tracks live admin sessions so logout takes effect before token expiry.
type SessionStore interface {
	Create(ctx context.Context, sessionID, adminID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}
