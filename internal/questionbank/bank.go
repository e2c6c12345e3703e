// Package questionbank holds the read-only pool of practice questions and
// draws randomized subsets from it.
package questionbank

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/model"
)

// Bank is the process-wide question pool. It is populated once by New and
// never mutated afterwards, so reads need no locking. Only the random source
// is guarded.
type Bank struct {
	pool  []model.Question
	index map[string]int
	log   zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Bank.
type Option func(*Bank)

// WithRand replaces the random source used for sampling.
func WithRand(r *rand.Rand) Option {
	return func(b *Bank) {
		b.rng = r
	}
}

// New builds a bank from questions. Malformed questions and repeated ids are
// excluded and logged rather than failing startup.
func New(questions []model.Question, log zerolog.Logger, opts ...Option) *Bank {
	b := &Bank{
		pool:  make([]model.Question, 0, len(questions)),
		index: make(map[string]int, len(questions)),
		log:   log.With().Str("component", "question_bank").Logger(),
	}

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			b.log.Warn().Err(err).Msg("Excluding question from pool")
			continue
		}
		if _, dup := b.index[q.ID]; dup {
			b.log.Warn().Str("question_id", q.ID).Msg("Excluding duplicate question id from pool")
			continue
		}
		b.index[q.ID] = len(b.pool)
		b.pool = append(b.pool, cloneQuestion(q))
	}

	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		seed := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	b.log.Info().Int("questions", len(b.pool)).Msg("Question bank loaded")
	return b
}

// Size returns the number of questions in the pool.
func (b *Bank) Size() int {
	return len(b.pool)
}

// Get returns a copy of the question with the given id.
func (b *Bank) Get(id string) (model.Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return model.Question{}, false
	}
	return cloneQuestion(b.pool[i]), true
}

// All returns a copy of the pool in load order.
func (b *Bank) All() []model.Question {
	out := make([]model.Question, len(b.pool))
	for i, q := range b.pool {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Sample returns min(count, Size()) distinct questions in uniformly random
// order. A non-positive count yields an empty slice. topic is accepted but
// does not narrow the pool.
func (b *Bank) Sample(count int, topic string) []model.Question {
	if topic != "" {
		b.log.Debug().Str("topic", topic).Msg("Topic filter requested; pool is not partitioned by topic")
	}

	n := min(max(count, 0), len(b.pool))
	if n == 0 {
		return []model.Question{}
	}

	perm := make([]int, len(b.pool))
	for i := range perm {
		perm[i] = i
	}

	// Fisher-Yates: every permutation is equally likely.
	b.rngMu.Lock()
	for i := len(perm) - 1; i > 0; i-- {
		j := b.rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	b.rngMu.Unlock()

	out := make([]model.Question, n)
	for i := 0; i < n; i++ {
		out[i] = cloneQuestion(b.pool[perm[i]])
	}
	return out
}

func cloneQuestion(q model.Question) model.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
