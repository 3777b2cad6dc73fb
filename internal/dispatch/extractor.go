package dispatch

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/queue"
)

// ExtractorAsynq schedules evidence text extraction on the queue.
type ExtractorAsynq struct {
	client *asynq.Client
}

// NewExtractorAsynq constructs the extractor.
func NewExtractorAsynq(client *asynq.Client) *ExtractorAsynq {
	return &ExtractorAsynq{client: client}
}

// Programar enqueues one extraction job; failures are logged only, the
// evidence itself is already stored.
func (e *ExtractorAsynq) Programar(ctx context.Context, casoID, objectKey string) {
	err := queue.EncolarExtraccion(ctx, e.client, queue.ExtraerPayload{
		CasoID:    casoID,
		ObjectKey: objectKey,
	})
	if err != nil {
		log.Printf("programar extracción caso %s: %v", casoID, err)
	}
}
