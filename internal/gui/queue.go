package gui

import (
	"context"
	"sync"
	"time"

	"codeberg.org/snonux/vocabtester/internal/vocab"
	"codeberg.org/snonux/vocabtester/internal/wordgen"
)

// TaskStatus represents the current state of a generation task
type TaskStatus int

const (
	StatusRunning TaskStatus = iota
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s TaskStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// GenerationTask is one background AI fill for the word form.
type GenerationTask struct {
	ID          int
	Kanji       string
	Status      TaskStatus
	Word        *vocab.Word
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the task. The completion callback still runs, with
// StatusCancelled.
func (t *GenerationTask) Cancel() {
	t.cancel()
}

// Wait blocks until the task has finished.
func (t *GenerationTask) Wait() {
	<-t.done
}

// TaskQueue runs generation tasks in the background and reports each one
// when it finishes.
type TaskQueue struct {
	gen wordgen.Generator

	mu     sync.Mutex
	nextID int
	active map[int]*GenerationTask

	// Called from the task goroutine; the GUI hops back with fyne.Do.
	onComplete func(task *GenerationTask)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTaskQueue creates a queue whose tasks are cancelled with ctx.
func NewTaskQueue(ctx context.Context, gen wordgen.Generator) *TaskQueue {
	queueCtx, cancel := context.WithCancel(ctx)
	return &TaskQueue{
		gen:    gen,
		nextID: 1,
		active: make(map[int]*GenerationTask),
		ctx:    queueCtx,
		cancel: cancel,
	}
}

// SetOnComplete sets the callback for finished tasks.
func (q *TaskQueue) SetOnComplete(fn func(task *GenerationTask)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onComplete = fn
}

// forgetter is implemented by generators that cache their entries.
type forgetter interface {
	Forget(kanji string)
}

// Start generates an entry for kanji in the background. A cached entry is
// dropped first, so pressing Generate again yields a new sentence.
func (q *TaskQueue) Start(kanji string) *GenerationTask {
	if f, ok := q.gen.(forgetter); ok {
		f.Forget(kanji)
	}
	ctx, cancel := context.WithCancel(q.ctx)

	q.mu.Lock()
	task := &GenerationTask{
		ID:        q.nextID,
		Kanji:     kanji,
		Status:    StatusRunning,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	q.nextID++
	q.active[task.ID] = task
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer cancel()
		q.run(ctx, task)
	}()
	return task
}

func (q *TaskQueue) run(ctx context.Context, task *GenerationTask) {
	word, err := q.gen.Generate(ctx, task.Kanji)

	q.mu.Lock()
	switch {
	case ctx.Err() != nil:
		task.Status = StatusCancelled
		task.Err = ctx.Err()
	case err != nil:
		task.Status = StatusFailed
		task.Err = err
	default:
		task.Status = StatusCompleted
		task.Word = word
	}
	task.CompletedAt = time.Now()
	delete(q.active, task.ID)
	onComplete := q.onComplete
	q.mu.Unlock()

	if onComplete != nil {
		onComplete(task)
	}
	close(task.done)
}

// Active returns the number of running tasks.
func (q *TaskQueue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active)
}

// Stop cancels every running task and waits for them to finish.
func (q *TaskQueue) Stop() {
	q.cancel()
	q.wg.Wait()
}
