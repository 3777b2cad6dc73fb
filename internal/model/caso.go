// Package model contains the struct definitions shared across packages.
package model

import "time"

// Caso is one scheduled verification visit and its tracking record. The JSON
// field names mirror the column names so payloads round-trip unchanged.
type Caso struct {
	ID                   string    `json:"id"`
	Solicitud            string    `json:"solicitud"`
	Nombre               string    `json:"nombre" validate:"required"`
	Documento            string    `json:"documento"`
	Telefono             string    `json:"telefono" validate:"required"`
	TelefonoSecundario   string    `json:"telefonosecundario"`
	TelefonoTerciario    string    `json:"telefonoterciario"`
	Email                string    `json:"email"`
	Direccion            string    `json:"direccion"`
	Barrio               string    `json:"barrio"`
	PuntoReferencia      string    `json:"punto_referencia"`
	Ciudad               string    `json:"ciudad"`
	Regional             string    `json:"regional"`
	TipoVisita           string    `json:"tipo_visita"`
	FechaVisita          string    `json:"fecha_visita"`
	HoraVisita           string    `json:"hora_visita"`
	Estado               string    `json:"estado" validate:"required"`
	IntentosContacto     int       `json:"intentos_contacto"`
	MotivoNoProgramacion string    `json:"motivo_no_programacion"`
	Observaciones        string    `json:"observaciones"`
	ContactoLogrado      bool      `json:"contacto_logrado"`
	EvaluadorEmail       string    `json:"evaluador_email"`
	EvaluadorTelefono    string    `json:"evaluador_telefono"`
	EvaluadorAsignado    string    `json:"evaluador_asignado"`
	AnalistaAsignado     string    `json:"analista_asignado"`
	Programador          string    `json:"programador"`
	Contacto             string    `json:"contacto"`
	Cliente              string    `json:"cliente"`
	Cargo                string    `json:"cargo"`
	Viaticos             int64     `json:"viaticos"`
	GastosAdicionales    int64     `json:"gastos_adicionales"`
	LinkFormulario       string    `json:"link_formulario"`
	EvidenciaURL         string    `json:"evidencia_url"`
	EvidenciaTexto       string    `json:"evidencia_texto,omitempty"`
	UltimaInteraccion    time.Time `json:"ultima_interaccion"`
}
