package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kuisin/internal/domain"
)

// QuestionLoader fetches a question from the backing store.
type QuestionLoader interface {
	GetQuestion(ctx context.Context, questionID string) (domain.Question, error)
}

// QuestionCache caches questions with TTL so answer scoring skips the database.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestion),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, questionID string) (domain.Question, error) {
	if q, ok := c.lookup(questionID); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(questionID, func() (interface{}, error) {
		if q, ok := c.lookup(questionID); ok {
			return q, nil
		}
		q, err := c.loader.GetQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.cache[questionID] = cachedQuestion{question: q, expiresAt: c.clock().Add(c.ttlWithJitterLocked())}
			c.mu.Unlock()
		}
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops the cached copy after an edit or delete.
func (c *QuestionCache) Invalidate(_ context.Context, questionID string) error {
	c.mu.Lock()
	delete(c.cache, questionID)
	c.mu.Unlock()
	return nil
}

func (c *QuestionCache) lookup(questionID string) (domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[questionID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Question{}, false
	}
	return entry.question, true
}

// ttlWithJitterLocked adds up to 10% jitter to spread expirations. Caller holds mu.
func (c *QuestionCache) ttlWithJitterLocked() time.Duration {
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
