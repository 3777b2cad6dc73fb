// Package dispatch decouples notification fan-out from the request path.
// Handlers respond as soon as persistence commits; delivery happens here,
// either through the asynq queue (with retry) or an in-process worker pool
// when no Redis is configured.
package dispatch

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/queue"
)

// Despachador accepts a batch of pending notifications. Implementations never
// block the caller on delivery.
type Despachador interface {
	Despachar(ctx context.Context, notificaciones []model.Notificacion)
}

// Asynq enqueues one task per notification; the worker process drains them
// with up to five retries.
type Asynq struct {
	client *asynq.Client
}

// NewAsynq constructs the queue-backed dispatcher.
func NewAsynq(client *asynq.Client) *Asynq {
	return &Asynq{client: client}
}

// Despachar enqueues every notification. A failed enqueue is logged and
// skipped: persistence already committed, so the request must not fail.
func (d *Asynq) Despachar(ctx context.Context, notificaciones []model.Notificacion) {
	for _, n := range notificaciones {
		if err := queue.EncolarNotificacion(ctx, d.client, n); err != nil {
			log.Printf("despachar notificación caso %s: %v", n.CasoID, err)
		}
	}
}
