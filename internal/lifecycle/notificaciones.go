package lifecycle

import (
	"fmt"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

// notificacionesCreacion builds the fan-out for a freshly created caso. For
// contact-achieved cases the evaluado gets a scheduling confirmation (email
// optional, WhatsApp always), the evaluador an assignment notice and every
// analyst a copy. Otherwise the evaluado gets an attempted-contact notice and
// the analysts a no-contact alert with the attempt count and stated reason.
func (c *Controlador) notificacionesCreacion(caso *model.Caso) []model.Notificacion {
	var out []model.Notificacion
	if caso.ContactoLogrado {
		confirmacion := fmt.Sprintf(
			"Estimado/a %s, su visita de verificación ha sido programada para el %s a las %s.",
			caso.Nombre, caso.FechaVisita, caso.HoraVisita)
		if caso.Email != "" {
			out = append(out, model.Notificacion{
				CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.Email,
				Asunto: "Confirmación de Visita", Mensaje: confirmacion,
			})
		}
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalWhatsApp, Destinatario: caso.Telefono,
			Mensaje: confirmacion,
		})
		asignacion := fmt.Sprintf(
			"Se le ha asignado la visita %s (%s) el %s a las %s en %s, %s. Formulario: %s",
			caso.ID, caso.TipoVisita, caso.FechaVisita, caso.HoraVisita,
			caso.Direccion, caso.Ciudad, caso.LinkFormulario)
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.EvaluadorEmail,
			Asunto: "Nueva Visita Asignada", Mensaje: asignacion,
		})
		if caso.EvaluadorTelefono != "" {
			out = append(out, model.Notificacion{
				CasoID: caso.ID, Canal: model.CanalWhatsApp, Destinatario: caso.EvaluadorTelefono,
				Mensaje:   asignacion,
				Plantilla: "visita_asignada",
				Parametros: []string{
					caso.ID, caso.FechaVisita, caso.HoraVisita, caso.Direccion,
				},
			})
		}
		aviso := fmt.Sprintf("Nueva visita creada con ID: %s, evaluado %s.", caso.ID, caso.Nombre)
		out = append(out, c.paraAnalistas(caso.ID, "Nueva Visita Creada", aviso)...)
	} else {
		intento := fmt.Sprintf(
			"Estimado/a %s, hemos intentado contactarle para programar su visita de verificación (intento N° %d). Por favor comuníquese con nosotros.",
			caso.Nombre, caso.IntentosContacto)
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalWhatsApp, Destinatario: caso.Telefono,
			Mensaje: intento,
		})
		if caso.Email != "" {
			out = append(out, model.Notificacion{
				CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.Email,
				Asunto: "Intento de Contacto", Mensaje: intento,
			})
		}
		alerta := fmt.Sprintf(
			"No fue posible contactar al evaluado del caso %s. Intentos: %d. Motivo: %s",
			caso.ID, caso.IntentosContacto, caso.MotivoNoProgramacion)
		out = append(out, c.paraAnalistas(caso.ID, "Caso Sin Contacto", alerta)...)
	}
	if contacto, ok := c.tablas.ContactoRegional(caso.Regional); ok {
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: contacto.Email,
			Asunto:  "Nueva Visita en su Regional",
			Mensaje: fmt.Sprintf("Se creó la visita %s en la regional %s (ciudad %s).", caso.ID, caso.Regional, caso.Ciudad),
		})
	}
	return out
}

// notificacionesActualizacion builds the fan-out for a status change. Two
// statuses trigger extra routing: "subida al Drive" notifies the operations
// desk, "reprogramada" sends the evaluador exactly one notice carrying the
// post-update schedule.
func (c *Controlador) notificacionesActualizacion(caso *model.Caso) []model.Notificacion {
	mensaje := fmt.Sprintf("El estado del caso %s ha sido actualizado a: %s", caso.ID, caso.Estado)
	out := c.paraAnalistas(caso.ID, "Actualización de Caso", mensaje)
	out = append(out, model.Notificacion{
		CasoID: caso.ID, Canal: model.CanalWhatsApp, Destinatario: caso.Telefono,
		Mensaje: mensaje,
	})
	if caso.Email != "" {
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.Email,
			Asunto: "Actualización de Caso", Mensaje: mensaje,
		})
	}
	switch caso.Estado {
	case "reprogramada":
		if caso.EvaluadorEmail != "" {
			out = append(out, model.Notificacion{
				CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.EvaluadorEmail,
				Asunto: "Visita Reprogramada",
				Mensaje: fmt.Sprintf(
					"La visita %s (%s) fue reprogramada para el %s a las %s en %s, %s.",
					caso.ID, caso.TipoVisita, caso.FechaVisita, caso.HoraVisita,
					caso.Direccion, caso.Ciudad),
			})
		}
	case "subida al Drive":
		out = append(out, model.Notificacion{
			CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: c.tablas.Operaciones.Email,
			Asunto: "Caso Subido al Drive",
			Mensaje: fmt.Sprintf(
				"El caso %s quedó en estado 'subida al Drive'. Mueva el registro al sistema externo y márquelo como 'terminada' cuando finalice.",
				caso.ID),
		})
	default:
		if caso.EvaluadorEmail != "" {
			out = append(out, model.Notificacion{
				CasoID: caso.ID, Canal: model.CanalCorreo, Destinatario: caso.EvaluadorEmail,
				Asunto: "Actualización de Caso", Mensaje: mensaje,
			})
		}
	}
	return out
}

func (c *Controlador) paraAnalistas(casoID, asunto, mensaje string) []model.Notificacion {
	out := make([]model.Notificacion, 0, len(c.tablas.Analistas)*2)
	for _, analista := range c.tablas.Analistas {
		if analista.Email != "" {
			out = append(out, model.Notificacion{
				CasoID: casoID, Canal: model.CanalCorreo, Destinatario: analista.Email,
				Asunto: asunto, Mensaje: mensaje,
			})
		}
		if analista.Telefono != "" {
			out = append(out, model.Notificacion{
				CasoID: casoID, Canal: model.CanalWhatsApp, Destinatario: analista.Telefono,
				Mensaje: mensaje,
			})
		}
	}
	return out
}
