// Package worker plugs delivery and extraction handlers into the asynq loop.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/notify"
	"github.com/verifik-ops/visitas-backend/internal/pdfutil"
	"github.com/verifik-ops/visitas-backend/internal/queue"
	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/s3storage"
)

// Procesador handles the queued jobs.
type Procesador struct {
	gateway *notify.Gateway
	casos   repository.Casos
	store   *s3storage.Storage
}

// NewProcesador constructs a worker processor.
func NewProcesador(gateway *notify.Gateway, casos repository.Casos, store *s3storage.Storage) *Procesador {
	return &Procesador{gateway: gateway, casos: casos, store: store}
}

// Handler registers the job handlers.
func (p *Procesador) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.EnviarNotificacionTask, p.handleEnviar)
	mux.HandleFunc(queue.ExtraerEvidenciaTask, p.handleExtraer)
	return mux
}

// handleEnviar delivers one notification. A failed delivery returns an error
// so asynq retries it; every attempt lands in the communication log either
// way.
func (p *Procesador) handleEnviar(ctx context.Context, task *asynq.Task) error {
	var n model.Notificacion
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		return fmt.Errorf("decode notificación: %w", err)
	}
	res := p.gateway.Enviar(ctx, n)
	if !res.OK {
		return fmt.Errorf("envío %s a %s: %s", n.Canal, n.Destinatario, res.Mensaje)
	}
	log.Printf("notificación %s entregada a %s (caso %s)", n.Canal, n.Destinatario, n.CasoID)
	return nil
}

func (p *Procesador) handleExtraer(ctx context.Context, task *asynq.Task) error {
	var payload queue.ExtraerPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode extracción: %w", err)
	}
	if err := ExtraerTextoEvidencia(ctx, p.store, p.casos, payload.CasoID, payload.ObjectKey); err != nil {
		log.Printf("extracción fallida para caso %s: %v", payload.CasoID, err)
		return err
	}
	return nil
}

// ExtraerTextoEvidencia downloads a PDF evidence object, extracts its text
// and stores it on the caso. Shared with the redis-less in-process path.
func ExtraerTextoEvidencia(ctx context.Context, store *s3storage.Storage, casos repository.Casos, casoID, objectKey string) error {
	data, err := store.Descargar(ctx, objectKey)
	if err != nil {
		return err
	}
	texto, err := pdfutil.ExtraerTexto(data)
	if err != nil {
		return err
	}
	if err := casos.ActualizarEvidenciaTexto(ctx, casoID, texto); err != nil {
		return err
	}
	log.Printf("evidencia del caso %s procesada (%d bytes de texto)", casoID, len(texto))
	return nil
}
