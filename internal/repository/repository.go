// Package repository is the persistence boundary. It owns the existence and
// uniqueness checks the lifecycle controller relies on; callers branch on the
// sentinel errors with errors.Is.
package repository

import (
	"context"
	"errors"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

var (
	ErrNoEncontrado = errors.New("registro no encontrado")
	ErrIDDuplicado  = errors.New("el id del caso ya existe")
	ErrYaCompletada = errors.New("la evaluación ya está completada")
)

// Casos persists case records.
type Casos interface {
	Crear(ctx context.Context, caso *model.Caso) error
	Obtener(ctx context.Context, id string) (*model.Caso, error)
	Listar(ctx context.Context) ([]model.Caso, error)
	// ListarPorFechaVisita returns cases whose fecha_visita lies in
	// [desde, hasta], both inclusive.
	ListarPorFechaVisita(ctx context.Context, desde, hasta string) ([]model.Caso, error)
	// Actualizar overwrites the workflow fields (estado, intentos,
	// observaciones, reschedule, ultima_interaccion).
	Actualizar(ctx context.Context, caso *model.Caso) error
	ActualizarEvidencia(ctx context.Context, id, url string) error
	ActualizarEvidenciaTexto(ctx context.Context, id, texto string) error
}

// Comunicaciones is the append-only communication log.
type Comunicaciones interface {
	Registrar(ctx context.Context, c *model.Comunicacion) error
	Listar(ctx context.Context) ([]model.Comunicacion, error)
	ListarPorCaso(ctx context.Context, casoID string) ([]model.Comunicacion, error)
	Eliminar(ctx context.Context, id string) error
}

// Evaluaciones persists scheduled assessments.
type Evaluaciones interface {
	Crear(ctx context.Context, e *model.Evaluacion) error
	Obtener(ctx context.Context, id string) (*model.Evaluacion, error)
	Listar(ctx context.Context) ([]model.Evaluacion, error)
	// Completar flips the monotonic completada flag; ErrYaCompletada when
	// it is already set.
	Completar(ctx context.Context, id string) error
}
