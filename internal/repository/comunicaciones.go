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

const comunicacionColumnas = `id, caso_id, tipo, estado, comentario,
	intentos_contacto, motivo_no_programacion, creada_en`

// ComunicacionesPG implements the append-only communication log over pgx.
type ComunicacionesPG struct {
	pool *pgxpool.Pool
}

// NewComunicacionesPG constructs the repository.
func NewComunicacionesPG(pool *pgxpool.Pool) *ComunicacionesPG {
	return &ComunicacionesPG{pool: pool}
}

// Registrar appends one attempt. The referenced caso must exist; the foreign
// key reports the violation, mapped to ErrNoEncontrado.
func (r *ComunicacionesPG) Registrar(ctx context.Context, c *model.Comunicacion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreadaEn.IsZero() {
		c.CreadaEn = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comunicaciones (`+comunicacionColumnas+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, c.ID, c.CasoID, c.Tipo, c.Estado, c.Comentario,
		c.IntentosContacto, c.MotivoNoProgramacion, c.CreadaEn)
	if err != nil {
		return fmt.Errorf("insertar comunicación: %w", err)
	}
	return nil
}

// Listar returns every logged attempt.
func (r *ComunicacionesPG) Listar(ctx context.Context) ([]model.Comunicacion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+comunicacionColumnas+` FROM comunicaciones ORDER BY creada_en DESC`)
	if err != nil {
		return nil, fmt.Errorf("listar comunicaciones: %w", err)
	}
	defer rows.Close()
	return recolectarComunicaciones(rows)
}

// ListarPorCaso returns the attempts logged for one caso.
func (r *ComunicacionesPG) ListarPorCaso(ctx context.Context, casoID string) ([]model.Comunicacion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+comunicacionColumnas+` FROM comunicaciones
		WHERE caso_id=$1 ORDER BY creada_en DESC
	`, casoID)
	if err != nil {
		return nil, fmt.Errorf("listar comunicaciones del caso: %w", err)
	}
	defer rows.Close()
	return recolectarComunicaciones(rows)
}

// Eliminar removes one attempt after confirming it exists.
func (r *ComunicacionesPG) Eliminar(ctx context.Context, id string) error {
	var existente string
	err := r.pool.QueryRow(ctx, `SELECT id FROM comunicaciones WHERE id=$1`, id).Scan(&existente)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoEncontrado
		}
		return fmt.Errorf("buscar comunicación: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM comunicaciones WHERE id=$1`, id); err != nil {
		return fmt.Errorf("eliminar comunicación: %w", err)
	}
	return nil
}

func recolectarComunicaciones(rows pgx.Rows) ([]model.Comunicacion, error) {
	out := make([]model.Comunicacion, 0)
	for rows.Next() {
		var c model.Comunicacion
		if err := rows.Scan(&c.ID, &c.CasoID, &c.Tipo, &c.Estado, &c.Comentario,
			&c.IntentosContacto, &c.MotivoNoProgramacion, &c.CreadaEn); err != nil {
			return nil, fmt.Errorf("escanear comunicación: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar comunicaciones: %w", err)
	}
	return out, nil
}
