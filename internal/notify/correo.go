package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/verifik-ops/visitas-backend/internal/validate"
)

// Correo delivers plain-text email through the configured sending account.
// There is no mail library in use anywhere in this stack, so this stays on
// net/smtp; STARTTLS is negotiated by SendMail when the server offers it.
type Correo struct {
	host string
	port string
	user string
	pass string
}

// NewCorreo constructs the sender.
func NewCorreo(host, port, user, pass string) *Correo {
	return &Correo{host: host, port: port, user: user, pass: pass}
}

// Enviar sends one message. Malformed recipients are rejected locally before
// any transport attempt; the outcome never escapes as an error.
func (c *Correo) Enviar(ctx context.Context, destinatario, asunto, mensaje string) Resultado {
	if !validate.Email(destinatario) {
		return Resultado{OK: false, Mensaje: "Correo inválido"}
	}
	if c.user == "" || c.pass == "" {
		return Resultado{OK: false, Mensaje: "Credenciales de correo no configuradas"}
	}
	if err := ctx.Err(); err != nil {
		return Resultado{OK: false, Mensaje: err.Error()}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: \"Notificaciones\" <%s>\r\n", c.user)
	fmt.Fprintf(&b, "To: %s\r\n", destinatario)
	fmt.Fprintf(&b, "Subject: %s\r\n", asunto)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(mensaje)
	auth := smtp.PlainAuth("", c.user, c.pass, c.host)
	addr := c.host + ":" + c.port
	if err := smtp.SendMail(addr, auth, c.user, []string{destinatario}, []byte(b.String())); err != nil {
		return Resultado{OK: false, Mensaje: err.Error()}
	}
	return Resultado{OK: true, Mensaje: "Correo enviado con éxito"}
}
