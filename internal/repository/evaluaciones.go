package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

// EvaluacionesPG implements Evaluaciones over pgx.
type EvaluacionesPG struct {
	pool *pgxpool.Pool
}

// NewEvaluacionesPG constructs the repository.
func NewEvaluacionesPG(pool *pgxpool.Pool) *EvaluacionesPG {
	return &EvaluacionesPG{pool: pool}
}

// Crear inserts a pending evaluación.
func (r *EvaluacionesPG) Crear(ctx context.Context, e *model.Evaluacion) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreadaEn.IsZero() {
		e.CreadaEn = time.Now().UTC()
	}
	e.Completada = false
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluaciones (id, caso_id, fecha_programada, completada, creada_en)
		VALUES ($1,$2,$3,$4,$5)
	`, e.ID, e.CasoID, e.FechaProgramada, e.Completada, e.CreadaEn)
	if err != nil {
		return fmt.Errorf("insertar evaluación: %w", err)
	}
	return nil
}

// Obtener returns an evaluación by id.
func (r *EvaluacionesPG) Obtener(ctx context.Context, id string) (*model.Evaluacion, error) {
	var e model.Evaluacion
	err := r.pool.QueryRow(ctx, `
		SELECT id, caso_id, fecha_programada, completada, creada_en
		FROM evaluaciones WHERE id=$1
	`, id).Scan(&e.ID, &e.CasoID, &e.FechaProgramada, &e.Completada, &e.CreadaEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("consultar evaluación: %w", err)
	}
	return &e, nil
}

// Listar returns every evaluación.
func (r *EvaluacionesPG) Listar(ctx context.Context) ([]model.Evaluacion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, caso_id, fecha_programada, completada, creada_en
		FROM evaluaciones ORDER BY creada_en DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listar evaluaciones: %w", err)
	}
	defer rows.Close()
	out := make([]model.Evaluacion, 0)
	for rows.Next() {
		var e model.Evaluacion
		if err := rows.Scan(&e.ID, &e.CasoID, &e.FechaProgramada, &e.Completada, &e.CreadaEn); err != nil {
			return nil, fmt.Errorf("escanear evaluación: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar evaluaciones: %w", err)
	}
	return out, nil
}

// Completar marks the evaluación done. The flag is monotonic: a second call
// returns ErrYaCompletada.
func (r *EvaluacionesPG) Completar(ctx context.Context, id string) error {
	existente, err := r.Obtener(ctx, id)
	if err != nil {
		return err
	}
	if existente.Completada {
		return ErrYaCompletada
	}
	if _, err := r.pool.Exec(ctx, `UPDATE evaluaciones SET completada=TRUE WHERE id=$1`, id); err != nil {
		return fmt.Errorf("completar evaluación: %w", err)
	}
	return nil
}
