// Package play drives one participant through a quiz: it presents questions in
// order, runs the countdown, submits answers and finishes with the rank.
package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kuisin/internal/domain"
)

// State is the phase of a quiz attempt.
type State int

const (
	Loading State = iota
	Presenting
	Submitted
	Completed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Presenting:
		return "presenting"
	case Submitted:
		return "submitted"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// API is the slice of the function client the play flow calls.
type API interface {
	GetQuiz(ctx context.Context, quizID string) (domain.QuizWithQuestions, error)
	SubmitAnswer(ctx context.Context, participantID, questionID string, selected int) (domain.SubmitResult, error)
	UpdateParticipant(ctx context.Context, participantID string, patch domain.ParticipantPatch) (domain.Participant, error)
	Leaderboard(ctx context.Context, quizID string) ([]domain.Participant, error)
}

// Session forgets the participant once the quiz is completed.
type Session interface {
	ClearParticipant() error
}

// Participant identifies who is playing and since when.
type Participant struct {
	ID       string
	QuizID   string
	JoinedAt time.Time
}

// Observer is notified from the Run goroutine; implementations must not block for long.
type Observer interface {
	StateChanged(state State, index, total int, q domain.Question)
	Tick(remaining int)
	Feedback(res domain.SubmitResult)
	Finished(res Result)
}

// Result is the outcome shown after the last question.
type Result struct {
	Score          int
	CompletionTime int
	Rank           int
	Leaderboard    []domain.Participant
}

// ErrNotRunning is returned by Select and Confirm outside Run.
var ErrNotRunning = errors.New("player is not running")

// Player runs one attempt. Select and Confirm may be called from any goroutine
// while Run is active.
type Player struct {
	api         API
	session     Session
	participant Participant
	obs         Observer

	tick   time.Duration
	review time.Duration
	now    func() time.Time

	selects  chan int
	confirms chan struct{}
	done     chan struct{}
}

// Option customizes a Player.
type Option func(*Player)

// WithTick sets the countdown interval; one tick removes one second from the limit.
func WithTick(d time.Duration) Option { return func(p *Player) { p.tick = d } }

// WithReview sets how long feedback stays up before advancing.
func WithReview(d time.Duration) Option { return func(p *Player) { p.review = d } }

func WithClock(now func() time.Time) Option { return func(p *Player) { p.now = now } }

func NewPlayer(api API, session Session, participant Participant, obs Observer, opts ...Option) *Player {
	p := &Player{
		api:         api,
		session:     session,
		participant: participant,
		obs:         obs,
		tick:        time.Second,
		review:      2 * time.Second,
		now:         time.Now,
		selects:     make(chan int),
		confirms:    make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.obs == nil {
		p.obs = nopObserver{}
	}
	return p
}

// Select records option as the current choice without submitting it.
func (p *Player) Select(option int) error {
	select {
	case p.selects <- option:
		return nil
	case <-p.done:
		return ErrNotRunning
	}
}

// Confirm submits the current choice. It has no effect without a selection,
// while a submission is in flight or during the review window.
func (p *Player) Confirm() error {
	select {
	case p.confirms <- struct{}{}:
		return nil
	case <-p.done:
		return ErrNotRunning
	}
}

// Run plays the quiz to completion. Cancelling ctx abandons the attempt: the
// countdown stops and nothing further is sent to the server.
func (p *Player) Run(ctx context.Context) (Result, error) {
	defer close(p.done)

	p.obs.StateChanged(Loading, 0, 0, domain.Question{})
	quiz, err := p.api.GetQuiz(ctx, p.participant.QuizID)
	if err != nil {
		return Result{}, fmt.Errorf("load quiz: %w", err)
	}

	total := len(quiz.Questions)
	for i, q := range quiz.Questions {
		p.obs.StateChanged(Presenting, i, total, q)
		res, err := p.present(ctx, q, q.EffectiveTimeLimit(quiz.DurationPerQuestion))
		if err != nil {
			return Result{}, err
		}

		p.obs.StateChanged(Submitted, i, total, q)
		p.obs.Feedback(res)
		if err := p.hold(ctx, p.review); err != nil {
			return Result{}, err
		}
	}
	return p.finish(ctx)
}

// present runs the countdown for q until the participant confirms or time runs
// out, then submits and waits for the result.
func (p *Player) present(ctx context.Context, q domain.Question, limit int) (domain.SubmitResult, error) {
	qctx, stop := context.WithCancel(ctx)
	ticks := countdown(qctx, limit, p.tick)

	selected := domain.NoAnswer
	p.obs.Tick(limit)
wait:
	for {
		select {
		case <-ctx.Done():
			stop()
			return domain.SubmitResult{}, ctx.Err()
		case opt := <-p.selects:
			if opt >= 0 && opt < len(q.Options) {
				selected = opt
			}
		case <-p.confirms:
			if selected != domain.NoAnswer {
				break wait
			}
		case remaining := <-ticks:
			p.obs.Tick(remaining)
			if remaining == 0 {
				break wait
			}
		}
	}
	stop()

	type outcome struct {
		res domain.SubmitResult
		err error
	}
	inflight := make(chan outcome, 1)
	go func() {
		res, err := p.api.SubmitAnswer(ctx, p.participant.ID, q.ID, selected)
		inflight <- outcome{res, err}
	}()

	for {
		select {
		case <-ctx.Done():
			return domain.SubmitResult{}, ctx.Err()
		case <-p.selects:
		case <-p.confirms:
		case out := <-inflight:
			if out.err != nil {
				return domain.SubmitResult{}, fmt.Errorf("submit answer: %w", out.err)
			}
			return out.res, nil
		}
	}
}

// hold waits out the review window, discarding input.
func (p *Player) hold(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.selects:
		case <-p.confirms:
		case <-timer.C:
			return nil
		}
	}
}

func (p *Player) finish(ctx context.Context) (Result, error) {
	elapsed := int(p.now().Sub(p.participant.JoinedAt).Seconds())
	updated, err := p.api.UpdateParticipant(ctx, p.participant.ID, domain.ParticipantPatch{CompletionTime: &elapsed})
	if err != nil {
		return Result{}, fmt.Errorf("mark completion: %w", err)
	}

	board, err := p.api.Leaderboard(ctx, p.participant.QuizID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch leaderboard: %w", err)
	}

	res := Result{
		Score:          updated.Score,
		CompletionTime: elapsed,
		Rank:           domain.RankOf(board, p.participant.ID),
		Leaderboard:    board,
	}
	if p.session != nil {
		if err := p.session.ClearParticipant(); err != nil {
			return res, fmt.Errorf("clear participant session: %w", err)
		}
	}
	p.obs.StateChanged(Completed, 0, 0, domain.Question{})
	p.obs.Finished(res)
	return res, nil
}

// countdown emits the remaining seconds after every tick, ending at zero. The
// goroutine exits when ctx is cancelled.
func countdown(ctx context.Context, from int, every time.Duration) <-chan int {
	out := make(chan int)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for remaining := from - 1; remaining >= 0; remaining-- {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- remaining:
			}
		}
	}()
	return out
}

type nopObserver struct{}

func (nopObserver) StateChanged(State, int, int, domain.Question) {}
func (nopObserver) Tick(int)                                      {}
func (nopObserver) Feedback(domain.SubmitResult)                  {}
func (nopObserver) Finished(Result)                               {}
