package domain

// QuizInput carries the mutable quiz fields for create and update. Nil means "leave as is".
type QuizInput struct {
	Title               *string `json:"title" validate:"omitempty,min=1"`
	Description         *string `json:"description"`
	DefaultPoints       *int    `json:"default_points" validate:"omitempty,min=0"`
	DurationPerQuestion *int    `json:"duration_per_question" validate:"omitempty,min=1"`
	IsActive            *bool   `json:"is_active"`
}

// Apply copies the set fields onto q. Code and ownership are never touched.
func (in QuizInput) Apply(q *Quiz) {
	if in.Title != nil {
		q.Title = *in.Title
	}
	if in.Description != nil {
		q.Description = *in.Description
	}
	if in.DefaultPoints != nil {
		q.DefaultPoints = *in.DefaultPoints
	}
	if in.DurationPerQuestion != nil {
		q.DurationPerQuestion = *in.DurationPerQuestion
	}
	if in.IsActive != nil {
		q.IsActive = *in.IsActive
	}
}

// QuestionInput carries question fields. On create QuestionText, Options and
// CorrectOption must be present; a CorrectOption of 0 counts as present.
type QuestionInput struct {
	QuestionText  *string  `json:"question_text" validate:"required"`
	MediaURL      *string  `json:"media_url"`
	Options       []Option `json:"options" validate:"required"`
	CorrectOption *int     `json:"correct_option" validate:"required"`
	Points        *int     `json:"points" validate:"omitempty,min=0"`
	TimeLimit     *int     `json:"time_limit" validate:"omitempty,min=1"`
}

// Apply copies the set fields onto q.
func (in QuestionInput) Apply(q *Question) {
	if in.QuestionText != nil {
		q.QuestionText = *in.QuestionText
	}
	if in.MediaURL != nil {
		q.MediaURL = in.MediaURL
	}
	if in.Options != nil {
		q.Options = append([]Option(nil), in.Options...)
	}
	if in.CorrectOption != nil {
		q.CorrectOption = *in.CorrectOption
	}
	if in.Points != nil {
		q.Points = *in.Points
	}
	if in.TimeLimit != nil {
		q.TimeLimit = in.TimeLimit
	}
}

// ParticipantPatch is the arbitrary field patch accepted by participants.update.
type ParticipantPatch struct {
	Name           *string `json:"name"`
	Score          *int    `json:"score"`
	CompletionTime *int    `json:"completion_time"`
}

// Apply copies the set fields onto p.
func (in ParticipantPatch) Apply(p *Participant) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Score != nil {
		p.Score = *in.Score
	}
	if in.CompletionTime != nil {
		p.CompletionTime = in.CompletionTime
	}
}

// WaitlistInput is the marketing-site signup form.
type WaitlistInput struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization"`
	Purpose      string `json:"purpose"`
}
