package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCorreoRechazaDestinatarioInvalido(t *testing.T) {
	c := NewCorreo("smtp.example.com", "587", "bot@example.com", "clave")
	res := c.Enviar(context.Background(), "sin-arroba", "Asunto", "Mensaje")
	if res.OK {
		t.Fatal("un destinatario inválido no puede reportar éxito")
	}
	if res.Mensaje != "Correo inválido" {
		t.Fatalf("mensaje inesperado: %q", res.Mensaje)
	}
}

func TestCorreoSinCredenciales(t *testing.T) {
	c := NewCorreo("smtp.example.com", "587", "", "")
	res := c.Enviar(context.Background(), "ana@empresa.com", "Asunto", "Mensaje")
	if res.OK {
		t.Fatal("sin credenciales el envío debe fallar localmente")
	}
}

func TestWhatsAppRechazaNumeroInvalido(t *testing.T) {
	w := NewWhatsApp("http://localhost:0", "token", "12345")
	res := w.EnviarTexto(context.Background(), "300-123", "hola")
	if res.OK {
		t.Fatal("un número inválido no puede reportar éxito")
	}
	if res.Mensaje != "Número inválido o formato incorrecto" {
		t.Fatalf("mensaje inesperado: %q", res.Mensaje)
	}
}

func TestWhatsAppEnviaTexto(t *testing.T) {
	var ruta, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ruta = r.URL.Path
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	w := NewWhatsApp(srv.URL, "token-prueba", "555000")
	res := w.EnviarTexto(context.Background(), "+573001234567", "hola")
	if !res.OK {
		t.Fatalf("envío falló: %s", res.Mensaje)
	}
	if ruta != "/555000/messages" {
		t.Fatalf("ruta llamada = %q", ruta)
	}
	if auth != "Bearer token-prueba" {
		t.Fatalf("authorization = %q", auth)
	}
	if !strings.Contains(res.Respuesta, "wamid.1") {
		t.Fatalf("respuesta del proveedor no capturada: %q", res.Respuesta)
	}
}

func TestWhatsAppErrorDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"template not found"}}`))
	}))
	defer srv.Close()

	w := NewWhatsApp(srv.URL, "token", "555000")
	res := w.EnviarPlantilla(context.Background(), "+573001234567", "no_existe", nil)
	if res.OK {
		t.Fatal("un error del proveedor debe reportarse como fallo")
	}
	if !strings.Contains(res.Respuesta, "template not found") {
		t.Fatalf("el cuerpo de error del proveedor debe conservarse: %q", res.Respuesta)
	}
}
