package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	UserID    *uint
	ActorKind string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Dispatcher writes audit events from a background worker so a slow audit
// insert never blocks a request.
type Dispatcher struct {
	logger *Logger
	log    *slog.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(logger *Logger, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
