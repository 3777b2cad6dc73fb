// Package lifecycle orchestrates the caso operations: create, status update
// and evidence attach. It validates input, mutates the repository, computes
// the derived fields (viáticos, form link) and decides which notifications
// fan out. Notifications are dispatched after the mutation commits and never
// abort the operation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verifik-ops/visitas-backend/internal/dispatch"
	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/signing"
	"github.com/verifik-ops/visitas-backend/internal/tablas"
	"github.com/verifik-ops/visitas-backend/internal/validate"
)

var (
	// ErrValidacion marks client input errors; no side effect occurred.
	ErrValidacion = errors.New("entrada inválida")
	// ErrEstadoInvalido marks a status outside the configured set.
	ErrEstadoInvalido = errors.New("estado no válido")
)

// Almacen is the slice of object storage the controller needs.
type Almacen interface {
	Subir(ctx context.Context, objectKey string, datos []byte, contentType string) error
	Eliminar(ctx context.Context, objectKey string) error
}

// Extractor schedules background text extraction for PDF evidence. May be
// nil when no worker is available.
type Extractor interface {
	Programar(ctx context.Context, casoID, objectKey string)
}

// Opciones groups the policy knobs the controller reads from configuration.
type Opciones struct {
	Estados       []string
	StandbyAuto   bool
	StandbyUmbral int
	BaseURL       string
	TTLFirma      time.Duration
	MaxEvidencia  int64
}

// Controlador implements the case lifecycle.
type Controlador struct {
	casos       repository.Casos
	despachador dispatch.Despachador
	tablas      *tablas.Tablas
	almacen     Almacen
	signer      *signing.Signer
	extractor   Extractor
	opciones    Opciones
	ahora       func() time.Time
}

// NewControlador wires the controller.
func NewControlador(casos repository.Casos, despachador dispatch.Despachador, t *tablas.Tablas,
	almacen Almacen, signer *signing.Signer, extractor Extractor, opciones Opciones) *Controlador {
	return &Controlador{
		casos:       casos,
		despachador: despachador,
		tablas:      t,
		almacen:     almacen,
		signer:      signer,
		extractor:   extractor,
		opciones:    opciones,
		ahora:       time.Now,
	}
}

// CrearCaso validates the input, derives viáticos and the form link, persists
// the record and fans out the creation notifications. Email on the evaluado
// is optional everywhere; the evaluador email becomes mandatory when contact
// was achieved.
func (c *Controlador) CrearCaso(ctx context.Context, caso *model.Caso) (*model.Caso, error) {
	if caso.Nombre == "" || caso.Telefono == "" || caso.Estado == "" {
		return nil, fmt.Errorf("%w: nombre, teléfono y estado son obligatorios", ErrValidacion)
	}
	if !validate.Telefono(caso.Telefono) {
		return nil, fmt.Errorf("%w: número de teléfono no válido", ErrValidacion)
	}
	if !validate.EmailOpcional(caso.Email) {
		return nil, fmt.Errorf("%w: correo electrónico no válido", ErrValidacion)
	}
	if caso.ContactoLogrado {
		if caso.EvaluadorEmail == "" {
			return nil, fmt.Errorf("%w: evaluador_email es obligatorio cuando hay contacto", ErrValidacion)
		}
		if !validate.Email(caso.EvaluadorEmail) {
			return nil, fmt.Errorf("%w: correo del evaluador no válido", ErrValidacion)
		}
	}
	if !validate.Estado(caso.Estado, c.opciones.Estados) {
		return nil, fmt.Errorf("%w: %q", ErrEstadoInvalido, caso.Estado)
	}
	if caso.ID == "" {
		caso.ID = uuid.NewString()
	}
	caso.Viaticos = c.tablas.ViaticosPara(caso.Ciudad)
	caso.LinkFormulario = c.tablas.LinkFormulario(caso.TipoVisita)
	caso.EvidenciaURL = ""
	caso.UltimaInteraccion = c.ahora().UTC()
	if err := c.casos.Crear(ctx, caso); err != nil {
		return nil, err
	}
	c.despachador.Despachar(ctx, c.notificacionesCreacion(caso))
	return caso, nil
}

// Actualizacion carries the mutable workflow fields of a status update.
type Actualizacion struct {
	Estado               string `json:"estado"`
	IntentosContacto     int    `json:"intentos_contacto"`
	Observaciones        string `json:"observaciones"`
	MotivoNoProgramacion string `json:"motivo_no_programacion"`
	FechaVisita          string `json:"fecha_visita"`
	HoraVisita           string `json:"hora_visita"`
}

// ActualizarEstado overwrites the workflow fields and fans out the update
// notifications. Reaching the attempt threshold forces standby when the
// policy is enabled.
func (c *Controlador) ActualizarEstado(ctx context.Context, id string, cambio Actualizacion) (*model.Caso, error) {
	if !validate.Estado(cambio.Estado, c.opciones.Estados) {
		return nil, fmt.Errorf("%w: %q", ErrEstadoInvalido, cambio.Estado)
	}
	caso, err := c.casos.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	caso.Estado = cambio.Estado
	caso.IntentosContacto = cambio.IntentosContacto
	caso.Observaciones = cambio.Observaciones
	if cambio.MotivoNoProgramacion != "" {
		caso.MotivoNoProgramacion = cambio.MotivoNoProgramacion
	}
	if cambio.FechaVisita != "" {
		caso.FechaVisita = cambio.FechaVisita
	}
	if cambio.HoraVisita != "" {
		caso.HoraVisita = cambio.HoraVisita
	}
	if c.opciones.StandbyAuto && caso.IntentosContacto >= c.opciones.StandbyUmbral && caso.Estado != "standby" {
		caso.Estado = "standby"
	}
	caso.UltimaInteraccion = c.ahora().UTC()
	if err := c.casos.Actualizar(ctx, caso); err != nil {
		return nil, err
	}
	c.despachador.Despachar(ctx, c.notificacionesActualizacion(caso))
	return caso, nil
}

// AdjuntarEvidencia stores the file under a key namespaced by caso id and
// timestamp, writes the signed reference onto the record and schedules text
// extraction for PDFs. If the record update fails the uploaded object is
// removed again so nothing is orphaned.
func (c *Controlador) AdjuntarEvidencia(ctx context.Context, id, nombreArchivo, contentType string, datos []byte) (string, error) {
	if len(datos) == 0 {
		return "", fmt.Errorf("%w: no se ha subido ningún archivo", ErrValidacion)
	}
	if int64(len(datos)) > c.opciones.MaxEvidencia {
		return "", fmt.Errorf("%w: el archivo supera el límite de %d bytes", ErrValidacion, c.opciones.MaxEvidencia)
	}
	if _, err := c.casos.Obtener(ctx, id); err != nil {
		return "", err
	}
	objectKey := fmt.Sprintf("casos/%s/%d_%s", id, c.ahora().UnixMilli(), sanearNombre(nombreArchivo))
	if err := c.almacen.Subir(ctx, objectKey, datos, contentType); err != nil {
		return "", fmt.Errorf("subir evidencia: %w", err)
	}
	url := c.signer.URLEvidencia(c.opciones.BaseURL, objectKey, c.ahora().Add(c.opciones.TTLFirma))
	if err := c.casos.ActualizarEvidencia(ctx, id, url); err != nil {
		if delErr := c.almacen.Eliminar(ctx, objectKey); delErr != nil {
			return "", fmt.Errorf("guardar evidencia: %w (objeto huérfano %s: %v)", err, objectKey, delErr)
		}
		return "", fmt.Errorf("guardar evidencia: %w", err)
	}
	if c.extractor != nil && esPDF(nombreArchivo, contentType) {
		c.extractor.Programar(ctx, id, objectKey)
	}
	return url, nil
}

func esPDF(nombre, contentType string) bool {
	return contentType == "application/pdf" ||
		strings.EqualFold(filepath.Ext(nombre), ".pdf")
}

func sanearNombre(nombre string) string {
	base := filepath.Base(nombre)
	if base == "." || base == "/" || base == "" {
		base = "archivo"
	}
	return strings.ReplaceAll(base, " ", "_")
}
