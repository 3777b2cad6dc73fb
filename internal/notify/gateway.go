// Package notify is the notification gateway: a uniform send contract over
// the email and chat channels. Callers log outcomes but never treat them as
// request-aborting errors once the primary persistence step has committed.
package notify

import (
	"context"
	"log"

	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/repository"
)

// Resultado is the delivery outcome of one attempt.
type Resultado struct {
	OK        bool   `json:"success"`
	Mensaje   string `json:"message"`
	Respuesta string `json:"providerResponse,omitempty"`
}

// EnviadorCorreo abstracts the email transport.
type EnviadorCorreo interface {
	Enviar(ctx context.Context, destinatario, asunto, mensaje string) Resultado
}

// EnviadorWhatsApp abstracts the chat transport.
type EnviadorWhatsApp interface {
	EnviarTexto(ctx context.Context, numero, mensaje string) Resultado
	EnviarPlantilla(ctx context.Context, numero, plantilla string, parametros []string) Resultado
}

// Gateway routes a Notificacion to its channel and records every attempt in
// the communication log.
type Gateway struct {
	correo   EnviadorCorreo
	whatsapp EnviadorWhatsApp
	bitacora repository.Comunicaciones
}

// NewGateway constructs a Gateway.
func NewGateway(correo EnviadorCorreo, whatsapp EnviadorWhatsApp, bitacora repository.Comunicaciones) *Gateway {
	return &Gateway{correo: correo, whatsapp: whatsapp, bitacora: bitacora}
}

// Enviar delivers one notification and logs the outcome. It never returns an
// error; failure is visible only in the Resultado and the communication log.
func (g *Gateway) Enviar(ctx context.Context, n model.Notificacion) Resultado {
	var res Resultado
	switch n.Canal {
	case model.CanalCorreo:
		res = g.correo.Enviar(ctx, n.Destinatario, n.Asunto, n.Mensaje)
	case model.CanalWhatsApp:
		if n.Plantilla != "" {
			res = g.whatsapp.EnviarPlantilla(ctx, n.Destinatario, n.Plantilla, n.Parametros)
		} else {
			res = g.whatsapp.EnviarTexto(ctx, n.Destinatario, n.Mensaje)
		}
	default:
		res = Resultado{OK: false, Mensaje: "canal desconocido: " + string(n.Canal)}
	}
	g.registrar(ctx, n, res)
	return res
}

// RegistrarFallo writes a Fallido attempt without trying delivery, for
// notifications discarded before reaching a transport.
func (g *Gateway) RegistrarFallo(ctx context.Context, n model.Notificacion, motivo string) {
	g.registrar(ctx, n, Resultado{OK: false, Mensaje: motivo})
}

func (g *Gateway) registrar(ctx context.Context, n model.Notificacion, res Resultado) {
	if g.bitacora == nil || n.CasoID == "" {
		return
	}
	estado := model.EstadoEnviado
	if !res.OK {
		estado = model.EstadoFallido
	}
	comentario := res.Mensaje
	if res.Respuesta != "" {
		comentario = comentario + " | " + res.Respuesta
	}
	c := &model.Comunicacion{
		CasoID:     n.CasoID,
		Tipo:       n.Canal,
		Estado:     estado,
		Comentario: comentario,
	}
	if err := g.bitacora.Registrar(ctx, c); err != nil {
		log.Printf("registrar comunicación caso %s: %v", n.CasoID, err)
	}
}
