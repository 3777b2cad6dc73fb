package worker

import (
	"context"
	"log"

	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/s3storage"
)

// ExtractorLocal runs text extraction in-process, for deployments without a
// Redis-backed worker. Extraction happens in a goroutine detached from the
// request context.
type ExtractorLocal struct {
	store *s3storage.Storage
	casos repository.Casos
}

// NewExtractorLocal constructs the extractor.
func NewExtractorLocal(store *s3storage.Storage, casos repository.Casos) *ExtractorLocal {
	return &ExtractorLocal{store: store, casos: casos}
}

// Programar launches the extraction without blocking the caller.
func (e *ExtractorLocal) Programar(_ context.Context, casoID, objectKey string) {
	go func() {
		if err := ExtraerTextoEvidencia(context.Background(), e.store, e.casos, casoID, objectKey); err != nil {
			log.Printf("extracción local fallida para caso %s: %v", casoID, err)
		}
	}()
}
