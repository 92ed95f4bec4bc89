package posting

import (
	"context"
	"sync"

	"github.com/cleared-dev/bookpost/internal/model"
)

// Poster is anything that posts a single transaction.
type Poster interface {
	Post(ctx context.Context, req model.TransactionRequest) (model.PostingResult, error)
}

type job struct {
	ctx   context.Context
	req   model.TransactionRequest
	reply chan outcome
}

type outcome struct {
	res model.PostingResult
	err error
}

// Queue serializes postings through a single goroutine, so each posting
// reads the books only after the previous one has finished writing.
type Queue struct {
	poster Poster
	jobs   chan job
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the writer goroutine. size bounds pending submissions.
func NewQueue(p Poster, size int) *Queue {
	q := &Queue{
		poster: p,
		jobs:   make(chan job, size),
		done:   make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for j := range q.jobs {
		if err := j.ctx.Err(); err != nil {
			j.reply <- outcome{err: err}
			continue
		}
		res, err := q.poster.Post(j.ctx, j.req)
		j.reply <- outcome{res: res, err: err}
	}
}

// Submit enqueues req and waits for its result or for ctx to be done.
func (q *Queue) Submit(ctx context.Context, req model.TransactionRequest) (model.PostingResult, error) {
	j := job{ctx: ctx, req: req, reply: make(chan outcome, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return model.PostingResult{}, ErrQueueClosed
	}
	select {
	case q.jobs <- j:
	case <-ctx.Done():
		q.mu.RUnlock()
		return model.PostingResult{}, ctx.Err()
	}
	q.mu.RUnlock()

	select {
	case out := <-j.reply:
		return out.res, out.err
	case <-ctx.Done():
		return model.PostingResult{}, ctx.Err()
	}
}

// Close stops accepting work, lets queued postings finish and waits for
// the writer goroutine to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
