package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the tables if needed. Keeping the migration in code
// lets docker-compose bootstrap a working stack with no extra tooling.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS casos (
	id TEXT PRIMARY KEY,
	solicitud TEXT NOT NULL DEFAULT '',
	nombre TEXT NOT NULL,
	documento TEXT NOT NULL DEFAULT '',
	telefono TEXT NOT NULL,
	telefonosecundario TEXT NOT NULL DEFAULT '',
	telefonoterciario TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	direccion TEXT NOT NULL DEFAULT '',
	barrio TEXT NOT NULL DEFAULT '',
	punto_referencia TEXT NOT NULL DEFAULT '',
	ciudad TEXT NOT NULL DEFAULT '',
	regional TEXT NOT NULL DEFAULT '',
	tipo_visita TEXT NOT NULL DEFAULT '',
	fecha_visita TEXT NOT NULL DEFAULT '',
	hora_visita TEXT NOT NULL DEFAULT '',
	estado TEXT NOT NULL,
	intentos_contacto INT NOT NULL DEFAULT 0,
	motivo_no_programacion TEXT NOT NULL DEFAULT '',
	observaciones TEXT NOT NULL DEFAULT '',
	contacto_logrado BOOLEAN NOT NULL DEFAULT FALSE,
	evaluador_email TEXT NOT NULL DEFAULT '',
	evaluador_telefono TEXT NOT NULL DEFAULT '',
	evaluador_asignado TEXT NOT NULL DEFAULT '',
	analista_asignado TEXT NOT NULL DEFAULT '',
	programador TEXT NOT NULL DEFAULT '',
	contacto TEXT NOT NULL DEFAULT '',
	cliente TEXT NOT NULL DEFAULT '',
	cargo TEXT NOT NULL DEFAULT '',
	viaticos BIGINT NOT NULL DEFAULT 0,
	gastos_adicionales BIGINT NOT NULL DEFAULT 0,
	link_formulario TEXT NOT NULL DEFAULT '',
	evidencia_url TEXT NOT NULL DEFAULT '',
	evidencia_texto TEXT NOT NULL DEFAULT '',
	ultima_interaccion TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_casos_estado ON casos(estado);
CREATE INDEX IF NOT EXISTS idx_casos_fecha_visita ON casos(fecha_visita);

CREATE TABLE IF NOT EXISTS comunicaciones (
	id TEXT PRIMARY KEY,
	caso_id TEXT NOT NULL REFERENCES casos(id),
	tipo TEXT NOT NULL,
	estado TEXT NOT NULL,
	comentario TEXT NOT NULL DEFAULT '',
	intentos_contacto INT NOT NULL DEFAULT 0,
	motivo_no_programacion TEXT NOT NULL DEFAULT '',
	creada_en TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comunicaciones_caso ON comunicaciones(caso_id);

CREATE TABLE IF NOT EXISTS evaluaciones (
	id TEXT PRIMARY KEY,
	caso_id TEXT NOT NULL REFERENCES casos(id),
	fecha_programada TEXT NOT NULL DEFAULT '',
	completada BOOLEAN NOT NULL DEFAULT FALSE,
	creada_en TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluaciones_caso ON evaluaciones(caso_id);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
