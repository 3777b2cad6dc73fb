package model

// Notificacion is an outbound message waiting for delivery. It is what the
// lifecycle controller hands to the dispatcher and what the worker consumes;
// Plantilla plus Parametros select a provider-preapproved WhatsApp template,
// otherwise Mensaje is sent as freeform text.
type Notificacion struct {
	CasoID       string   `json:"caso_id"`
	Canal        Canal    `json:"canal"`
	Destinatario string   `json:"destinatario"`
	Asunto       string   `json:"asunto,omitempty"`
	Mensaje      string   `json:"mensaje"`
	Plantilla    string   `json:"plantilla,omitempty"`
	Parametros   []string `json:"parametros,omitempty"`
}
