package domain

import "time"

// NoAnswer is the selected_option recorded when the countdown expires without a choice.
const NoAnswer = -1

// Fallbacks applied when a quiz is created without explicit values.
const (
	DefaultPoints              = 10
	DefaultDurationPerQuestion = 30
)

// Quiz is the admin-owned container participants join by code.
type Quiz struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Code                string    `json:"code"`
	DefaultPoints       int       `json:"default_points"`
	DurationPerQuestion int       `json:"duration_per_question"`
	IsActive            bool      `json:"is_active"`
	CreatedBy           string    `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
}

// QuizWithQuestions is the joined read returned by quizzes.get.
type QuizWithQuestions struct {
	Quiz
	Questions []Question `json:"questions"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models an MCQ question; CorrectOption indexes into Options.
type Question struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quiz_id"`
	QuestionText  string    `json:"question_text"`
	MediaURL      *string   `json:"media_url"`
	Options       []Option  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Points        int       `json:"points"`
	TimeLimit     *int      `json:"time_limit"`
	CreatedAt     time.Time `json:"created_at"`
}

// EffectiveTimeLimit returns the countdown length in seconds for this question.
func (q Question) EffectiveTimeLimit(quizDefault int) int {
	if q.TimeLimit != nil && *q.TimeLimit > 0 {
		return *q.TimeLimit
	}
	if quizDefault > 0 {
		return quizDefault
	}
	return DefaultDurationPerQuestion
}

// Participant is one quiz-taking session tied to a name and a quiz.
type Participant struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	CompletionTime *int      `json:"completion_time"`
	CreatedAt      time.Time `json:"created_at"`
}

// Answer is the immutable record of one submission.
type Answer struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	QuestionID     string    `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	PointsEarned   int       `json:"points_earned"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnsweredQuestion is the question slice embedded in participant details.
type AnsweredQuestion struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []Option `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// AnswerDetail joins an answer with the question it answered.
type AnswerDetail struct {
	ID             string           `json:"id"`
	SelectedOption int              `json:"selected_option"`
	IsCorrect      bool             `json:"is_correct"`
	PointsEarned   int              `json:"points_earned"`
	CreatedAt      time.Time        `json:"created_at"`
	Question       AnsweredQuestion `json:"questions"`
}

// ParticipantDetails is the admin drill-down for one participant.
type ParticipantDetails struct {
	Participant Participant    `json:"participant"`
	Answers     []AnswerDetail `json:"answers"`
}

// SubmitResult summarizes the outcome of an answer submission.
type SubmitResult struct {
	Answer         Answer `json:"answer"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	NewScore       int    `json:"new_score"`
	Completed      bool   `json:"completed"`
	CompletionTime *int   `json:"completion_time,omitempty"`
}

// JoinResult is returned by participants.join.
type JoinResult struct {
	Participant Participant `json:"participant"`
	Quiz        QuizSummary `json:"quiz"`
}

// QuizSummary is the public slice of a quiz exposed on join.
type QuizSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}

// Admin is a quiz author able to log in.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Waitlist statuses.
const (
	WaitlistPending = "pending"
	WaitlistInvited = "invited"
)

// WaitlistEntry is an early-access request from the marketing site.
type WaitlistEntry struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Organization string     `json:"organization"`
	Purpose      string     `json:"purpose"`
	Status       string     `json:"status"`
	InvitedAt    *time.Time `json:"invited_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
