package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verifik-ops/visitas-backend/internal/validate"
)

// WhatsApp delivers chat messages through the Cloud API. Freeform text works
// inside the provider's service window; template messages are required for
// anything provider-preapproved.
type WhatsApp struct {
	apiURL  string
	token   string
	phoneID string
	client  *http.Client
}

// NewWhatsApp constructs the sender.
func NewWhatsApp(apiURL, token, phoneID string) *WhatsApp {
	return &WhatsApp{
		apiURL:  apiURL,
		token:   token,
		phoneID: phoneID,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// EnviarTexto sends a freeform text message.
func (w *WhatsApp) EnviarTexto(ctx context.Context, numero, mensaje string) Resultado {
	cuerpo := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                numero,
		"type":              "text",
		"text":              map[string]string{"body": mensaje},
	}
	return w.enviar(ctx, numero, cuerpo)
}

// EnviarPlantilla sends a named template with positional body parameters.
func (w *WhatsApp) EnviarPlantilla(ctx context.Context, numero, plantilla string, parametros []string) Resultado {
	params := make([]map[string]string, 0, len(parametros))
	for _, p := range parametros {
		params = append(params, map[string]string{"type": "text", "text": p})
	}
	cuerpo := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                numero,
		"type":              "template",
		"template": map[string]any{
			"name":     plantilla,
			"language": map[string]string{"code": "es_CO"},
			"components": []map[string]any{
				{"type": "body", "parameters": params},
			},
		},
	}
	return w.enviar(ctx, numero, cuerpo)
}

func (w *WhatsApp) enviar(ctx context.Context, numero string, cuerpo map[string]any) Resultado {
	if !validate.Telefono(numero) {
		return Resultado{OK: false, Mensaje: "Número inválido o formato incorrecto"}
	}
	if w.token == "" || w.phoneID == "" {
		return Resultado{OK: false, Mensaje: "Credenciales de WhatsApp no configuradas"}
	}
	payload, err := json.Marshal(cuerpo)
	if err != nil {
		return Resultado{OK: false, Mensaje: err.Error()}
	}
	url := fmt.Sprintf("%s/%s/messages", w.apiURL, w.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Resultado{OK: false, Mensaje: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return Resultado{OK: false, Mensaje: err.Error()}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	if resp.StatusCode >= 300 {
		return Resultado{
			OK:        false,
			Mensaje:   fmt.Sprintf("whatsapp api status %d", resp.StatusCode),
			Respuesta: string(respBody),
		}
	}
	return Resultado{OK: true, Mensaje: "Mensaje enviado con éxito", Respuesta: string(respBody)}
}
