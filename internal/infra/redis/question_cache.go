package redis

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"kuisin/internal/domain"
)

// QuestionLoader fetches a question from the backing store.
type QuestionLoader interface {
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
}

// QuestionCache keeps the scoring view of each question in Redis and falls back
// to a loader on miss. Layout:
//
//	HSET question:{questionID} quiz_id {quizID} correct_option {n} points {p}
//
// Cached reads carry only ID, QuizID, CorrectOption and Points.
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	key := questionKey(questionID)
	if q, ok := c.read(ctx, key, questionID); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(questionID, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if q, ok := c.read(ctx, key, questionID); ok {
			return q, nil
		}
		q, err := c.loader.GetQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}

		pipe := c.client.Pipeline()
		pipe.HSet(ctx, key,
			"quiz_id", q.QuizID,
			"correct_option", q.CorrectOption,
			"points", q.Points,
		)
		if ttl := c.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops the cached scoring view after an edit or delete.
func (c *QuestionCache) Invalidate(ctx context.Context, questionID string) error {
	return c.client.Del(ctx, questionKey(questionID)).Err()
}

func (c *QuestionCache) read(ctx context.Context, key, questionID string) (domain.Question, bool) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Question{}, false
	}
	correct, err := strconv.Atoi(fields["correct_option"])
	if err != nil {
		return domain.Question{}, false
	}
	points, err := strconv.Atoi(fields["points"])
	if err != nil {
		return domain.Question{}, false
	}
	return domain.Question{
		ID:            questionID,
		QuizID:        fields["quiz_id"],
		CorrectOption: correct,
		Points:        points,
	}, true
}

func questionKey(questionID string) string {
	return "question:" + questionID
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
