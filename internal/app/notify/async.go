package notify

import (
	"context"
	"errors"
	"sync"

	"cleaning-backend/internal/app/negotiation"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrClosed    = errors.New("notifier is closed")
)

type job struct {
	ctx   context.Context
	event negotiation.Event
}

// Async доставляет события в отдельной горутине, чтобы медленный SMTP не держал HTTP ответ.
// Очередь ограничена; при переполнении событие отбрасывается с ошибкой
type Async struct {
	next  negotiation.Notifier
	queue chan job

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(next negotiation.Notifier, size int) *Async {
	if size < 1 {
		size = 1
	}
	a := &Async{
		next:  next,
		queue: make(chan job, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify ставит событие в очередь и не ждёт отправки
func (a *Async) Notify(ctx context.Context, event negotiation.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- job{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close дожидается отправки всех поставленных событий
func (a *Async) Close() error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	<-a.done
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for j := range a.queue {
		if err := a.next.Notify(j.ctx, j.event); err != nil {
			logrus.WithFields(logrus.Fields{
				"request_id": j.event.RequestID,
				"event":      j.event.Type,
			}).Warnf("failed to deliver notification: %v", err)
		}
	}
}
