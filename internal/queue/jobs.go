package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

const (
	// EnviarNotificacionTask carries one pending notification to the worker.
	EnviarNotificacionTask = "notificacion:enviar"
	// ExtraerEvidenciaTask is scheduled when a PDF evidence file is uploaded.
	ExtraerEvidenciaTask = "evidencia:extraer"
)

// ExtraerPayload tells the worker which object to pull from storage.
type ExtraerPayload struct {
	CasoID    string `json:"caso_id"`
	ObjectKey string `json:"object_key"`
}

// EncolarNotificacion enqueues one delivery job with retry.
func EncolarNotificacion(ctx context.Context, client *asynq.Client, n model.Notificacion) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notificación: %w", err)
	}
	task := asynq.NewTask(EnviarNotificacionTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("encolar notificación: %w", err)
	}
	return nil
}

// EncolarExtraccion enqueues a PDF text-extraction job.
func EncolarExtraccion(ctx context.Context, client *asynq.Client, payload ExtraerPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal extracción: %w", err)
	}
	task := asynq.NewTask(ExtraerEvidenciaTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("encolar extracción: %w", err)
	}
	return nil
}
