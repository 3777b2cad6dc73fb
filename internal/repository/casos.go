package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

const casoColumnas = `id, solicitud, nombre, documento, telefono, telefonosecundario,
	telefonoterciario, email, direccion, barrio, punto_referencia, ciudad, regional,
	tipo_visita, fecha_visita, hora_visita, estado, intentos_contacto,
	motivo_no_programacion, observaciones, contacto_logrado, evaluador_email,
	evaluador_telefono, evaluador_asignado, analista_asignado, programador,
	contacto, cliente, cargo, viaticos, gastos_adicionales, link_formulario,
	evidencia_url, evidencia_texto, ultima_interaccion`

// CasosPG implements Casos over a pgx pool.
type CasosPG struct {
	pool *pgxpool.Pool
}

// NewCasosPG constructs the repository.
func NewCasosPG(pool *pgxpool.Pool) *CasosPG {
	return &CasosPG{pool: pool}
}

// Crear inserts a new caso. A primary-key conflict surfaces as ErrIDDuplicado.
func (r *CasosPG) Crear(ctx context.Context, caso *model.Caso) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO casos (`+casoColumnas+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35)
	`, caso.ID, caso.Solicitud, caso.Nombre, caso.Documento, caso.Telefono,
		caso.TelefonoSecundario, caso.TelefonoTerciario, caso.Email, caso.Direccion,
		caso.Barrio, caso.PuntoReferencia, caso.Ciudad, caso.Regional, caso.TipoVisita,
		caso.FechaVisita, caso.HoraVisita, caso.Estado, caso.IntentosContacto,
		caso.MotivoNoProgramacion, caso.Observaciones, caso.ContactoLogrado,
		caso.EvaluadorEmail, caso.EvaluadorTelefono, caso.EvaluadorAsignado,
		caso.AnalistaAsignado, caso.Programador, caso.Contacto, caso.Cliente,
		caso.Cargo, caso.Viaticos, caso.GastosAdicionales, caso.LinkFormulario,
		caso.EvidenciaURL, caso.EvidenciaTexto, caso.UltimaInteraccion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrIDDuplicado
		}
		return fmt.Errorf("insertar caso: %w", err)
	}
	return nil
}

// Obtener returns a caso by id.
func (r *CasosPG) Obtener(ctx context.Context, id string) (*model.Caso, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+casoColumnas+` FROM casos WHERE id=$1`, id)
	caso, err := escanearCaso(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("consultar caso: %w", err)
	}
	return caso, nil
}

// Listar returns every caso.
func (r *CasosPG) Listar(ctx context.Context) ([]model.Caso, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+casoColumnas+` FROM casos ORDER BY ultima_interaccion DESC`)
	if err != nil {
		return nil, fmt.Errorf("listar casos: %w", err)
	}
	defer rows.Close()
	return recolectarCasos(rows)
}

// ListarPorFechaVisita returns the casos whose visit date falls in range.
func (r *CasosPG) ListarPorFechaVisita(ctx context.Context, desde, hasta string) ([]model.Caso, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+casoColumnas+` FROM casos
		WHERE fecha_visita >= $1 AND fecha_visita <= $2
		ORDER BY regional, fecha_visita
	`, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("listar casos por fecha: %w", err)
	}
	defer rows.Close()
	return recolectarCasos(rows)
}

// Actualizar overwrites the workflow fields of an existing caso.
func (r *CasosPG) Actualizar(ctx context.Context, caso *model.Caso) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE casos SET
			estado=$1, intentos_contacto=$2, motivo_no_programacion=$3,
			observaciones=$4, fecha_visita=$5, hora_visita=$6,
			ultima_interaccion=$7
		WHERE id=$8
	`, caso.Estado, caso.IntentosContacto, caso.MotivoNoProgramacion,
		caso.Observaciones, caso.FechaVisita, caso.HoraVisita,
		caso.UltimaInteraccion, caso.ID)
	if err != nil {
		return fmt.Errorf("actualizar caso: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

// ActualizarEvidencia stores the newest evidence reference on the caso.
func (r *CasosPG) ActualizarEvidencia(ctx context.Context, id, url string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE casos SET evidencia_url=$1 WHERE id=$2`, url, id)
	if err != nil {
		return fmt.Errorf("actualizar evidencia: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

// ActualizarEvidenciaTexto stores the extracted text of a PDF evidence file.
func (r *CasosPG) ActualizarEvidenciaTexto(ctx context.Context, id, texto string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE casos SET evidencia_texto=$1 WHERE id=$2`, texto, id)
	if err != nil {
		return fmt.Errorf("actualizar evidencia_texto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

type escaneador interface {
	Scan(dest ...any) error
}

func escanearCaso(row escaneador) (*model.Caso, error) {
	var c model.Caso
	err := row.Scan(&c.ID, &c.Solicitud, &c.Nombre, &c.Documento, &c.Telefono,
		&c.TelefonoSecundario, &c.TelefonoTerciario, &c.Email, &c.Direccion,
		&c.Barrio, &c.PuntoReferencia, &c.Ciudad, &c.Regional, &c.TipoVisita,
		&c.FechaVisita, &c.HoraVisita, &c.Estado, &c.IntentosContacto,
		&c.MotivoNoProgramacion, &c.Observaciones, &c.ContactoLogrado,
		&c.EvaluadorEmail, &c.EvaluadorTelefono, &c.EvaluadorAsignado,
		&c.AnalistaAsignado, &c.Programador, &c.Contacto, &c.Cliente, &c.Cargo,
		&c.Viaticos, &c.GastosAdicionales, &c.LinkFormulario, &c.EvidenciaURL,
		&c.EvidenciaTexto, &c.UltimaInteraccion)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func recolectarCasos(rows pgx.Rows) ([]model.Caso, error) {
	casos := make([]model.Caso, 0)
	for rows.Next() {
		caso, err := escanearCaso(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear caso: %w", err)
		}
		casos = append(casos, *caso)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar casos: %w", err)
	}
	return casos, nil
}
