package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"kuisin/internal/domain"
)

// Store is an in-process implementation of app.Store for development and tests.
// It enforces the same constraints as the Postgres schema: unique quiz codes,
// unique admin and waitlist emails, and cascading deletes from quizzes down.
type Store struct {
	mu           sync.RWMutex
	quizzes      map[string]domain.Quiz
	questions    map[string]domain.Question
	participants map[string]domain.Participant
	answers      map[string]domain.Answer
	admins       map[string]domain.Admin
	waitlist     map[string]domain.WaitlistEntry
	// insertion order for answers, which share timestamps under a fixed clock
	answerSeq map[string]int
	seq       int
}

func NewStore() *Store {
	return &Store{
		quizzes:      make(map[string]domain.Quiz),
		questions:    make(map[string]domain.Question),
		participants: make(map[string]domain.Participant),
		answers:      make(map[string]domain.Answer),
		admins:       make(map[string]domain.Admin),
		waitlist:     make(map[string]domain.WaitlistEntry),
		answerSeq:    make(map[string]int),
	}
}

func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.quizzes {
		if existing.Code == quiz.Code {
			return domain.ErrDuplicateQuizCode
		}
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *Store) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) GetQuizByCode(_ context.Context, code string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, quiz := range s.quizzes {
		if quiz.Code == code {
			return quiz, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *Store) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *Store) DeleteQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	for id, q := range s.questions {
		if q.QuizID == quizID {
			s.deleteQuestionLocked(id)
		}
	}
	for id, p := range s.participants {
		if p.QuizID == quizID {
			s.deleteParticipantLocked(id)
		}
	}
	delete(s.quizzes, quizID)
	return nil
}

func (s *Store) ListQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.QuizID == quizID {
			out = append(out, cloneQuestion(q))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CountQuestions(_ context.Context, quizID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if q.QuizID == quizID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[questionID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *Store) UpdateQuestion(_ context.Context, question domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[questionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.deleteQuestionLocked(questionID)
	return nil
}

func (s *Store) DeleteQuestionsByQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.questions {
		if q.QuizID == quizID {
			s.deleteQuestionLocked(id)
		}
	}
	return nil
}

func (s *Store) deleteQuestionLocked(questionID string) {
	for id, a := range s.answers {
		if a.QuestionID == questionID {
			delete(s.answers, id)
			delete(s.answerSeq, id)
		}
	}
	delete(s.questions, questionID)
}

func (s *Store) CreateParticipant(_ context.Context, participant domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[participant.QuizID]; !ok {
		return domain.ErrQuizNotFound
	}
	s.participants[participant.ID] = participant
	return nil
}

func (s *Store) GetParticipant(_ context.Context, participantID string) (domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantID]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return p, nil
}

func (s *Store) UpdateParticipant(_ context.Context, participant domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[participant.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	s.participants[participant.ID] = participant
	return nil
}

func (s *Store) RankParticipants(_ context.Context, quizID string, limit int) ([]domain.Participant, error) {
	s.mu.RLock()
	out := make([]domain.Participant, 0)
	for _, p := range s.participants {
		if p.QuizID == quizID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	domain.SortLeaderboard(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) deleteParticipantLocked(participantID string) {
	for id, a := range s.answers {
		if a.ParticipantID == participantID {
			delete(s.answers, id)
			delete(s.answerSeq, id)
		}
	}
	delete(s.participants, participantID)
}

func (s *Store) CreateAnswer(_ context.Context, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[answer.ParticipantID]; !ok {
		return domain.ErrParticipantNotFound
	}
	if _, ok := s.questions[answer.QuestionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.seq++
	s.answers[answer.ID] = answer
	s.answerSeq[answer.ID] = s.seq
	return nil
}

func (s *Store) ListAnswers(_ context.Context, participantID string) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Answer, 0)
	for _, a := range s.answers {
		if a.ParticipantID == participantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.answerSeq[out[i].ID] < s.answerSeq[out[j].ID]
	})
	return out, nil
}

// CountAnswers counts distinct questions answered, matching the Postgres query.
func (s *Store) CountAnswers(_ context.Context, participantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, a := range s.answers {
		if a.ParticipantID == participantID {
			seen[a.QuestionID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (s *Store) CreateAdmin(_ context.Context, admin domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if strings.EqualFold(existing.Email, admin.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	s.admins[admin.ID] = admin
	return nil
}

func (s *Store) GetAdmin(_ context.Context, adminID string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[adminID]
	if !ok {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	return admin, nil
}

func (s *Store) GetAdminByEmail(_ context.Context, email string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return domain.Admin{}, domain.ErrAdminNotFound
}

func (s *Store) CreateWaitlistEntry(_ context.Context, entry domain.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.waitlist {
		if strings.EqualFold(existing.Email, entry.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	s.waitlist[entry.ID] = entry
	return nil
}

func (s *Store) ListWaitlistEntries(_ context.Context) ([]domain.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WaitlistEntry, 0, len(s.waitlist))
	for _, e := range s.waitlist {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetWaitlistEntry(_ context.Context, entryID string) (domain.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.waitlist[entryID]
	if !ok {
		return domain.WaitlistEntry{}, domain.ErrWaitlistEntryNotFound
	}
	return e, nil
}

func (s *Store) UpdateWaitlistEntry(_ context.Context, entry domain.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.waitlist[entry.ID]; !ok {
		return domain.ErrWaitlistEntryNotFound
	}
	s.waitlist[entry.ID] = entry
	return nil
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]domain.Option(nil), q.Options...)
	return q
}
