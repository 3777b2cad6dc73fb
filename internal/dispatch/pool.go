package dispatch

import (
	"context"
	"log"

	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/notify"
)

// Pool is the in-process fallback dispatcher: a buffered channel drained by
// worker goroutines that deliver through the gateway. Used when no Redis
// address is configured; recipients are disjoint so delivery order between
// workers does not matter.
type Pool struct {
	gateway *notify.Gateway
	cola    chan model.Notificacion
	workers int
}

// NewPool builds a Pool with queue capacity tied to worker count.
func NewPool(gateway *notify.Gateway, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		gateway: gateway,
		cola:    make(chan model.Notificacion, workers*8),
		workers: workers,
	}
}

// Start launches the worker goroutines; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.worker(ctx)
	}
}

// Despachar queues the batch without blocking. When the buffer is full the
// notification is dropped, leaving a Fallido attempt in the communication log
// so the discard stays visible in the audit trail.
func (p *Pool) Despachar(ctx context.Context, notificaciones []model.Notificacion) {
	for _, n := range notificaciones {
		select {
		case p.cola <- n:
		default:
			log.Printf("cola de notificaciones llena, descartando envío a %s (caso %s)", n.Destinatario, n.CasoID)
			p.gateway.RegistrarFallo(ctx, n, "Cola de notificaciones llena, envío descartado")
		}
	}
}

func (p *Pool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-p.cola:
			res := p.gateway.Enviar(ctx, n)
			if !res.OK {
				log.Printf("envío %s a %s fallido: %s", n.Canal, n.Destinatario, res.Mensaje)
			}
		}
	}
}
