package model

import "time"

// Canal identifies the delivery channel of a notification attempt.
type Canal string

const (
	CanalCorreo   Canal = "Correo"
	CanalWhatsApp Canal = "WhatsApp"
)

// Delivery outcomes recorded on a Comunicacion.
const (
	EstadoEnviado = "Enviado"
	EstadoFallido = "Fallido"
)

// Comunicacion is one row of the append-only communication log: a single
// notification attempt tied to a caso.
type Comunicacion struct {
	ID                   string    `json:"id"`
	CasoID               string    `json:"caso_id" validate:"required"`
	Tipo                 Canal     `json:"tipo" validate:"required"`
	Estado               string    `json:"estado" validate:"required"`
	Comentario           string    `json:"comentario" validate:"required"`
	IntentosContacto     int       `json:"intentos_contacto"`
	MotivoNoProgramacion string    `json:"motivo_no_programacion"`
	CreadaEn             time.Time `json:"creada_en"`
}

// Evaluacion tracks a scheduled assessment tied to a caso. Completada is
// monotonic: once true no exposed operation resets it.
type Evaluacion struct {
	ID              string    `json:"id"`
	CasoID          string    `json:"caso_id" validate:"required"`
	FechaProgramada string    `json:"fecha_programada" validate:"required"`
	Completada      bool      `json:"completada"`
	CreadaEn        time.Time `json:"creada_en"`
}
