package signing

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSignAndValidate(t *testing.T) {
	signer := NewSigner([]byte("secreto-de-prueba"))
	now := time.Now()
	exp := now.Add(time.Hour).Unix()

	sig := signer.Sign("casos/abc/1_informe.pdf", exp)
	if sig == "" {
		t.Fatal("la firma no debe estar vacía")
	}
	if !signer.Validate("casos/abc/1_informe.pdf", formatInt(exp), sig, now) {
		t.Fatal("una firma recién emitida debe validar")
	}
	if signer.Validate("casos/otro/1_informe.pdf", formatInt(exp), sig, now) {
		t.Fatal("la firma no debe validar para otro objeto")
	}
	if signer.Validate("casos/abc/1_informe.pdf", formatInt(exp), sig+"00", now) {
		t.Fatal("una firma alterada no debe validar")
	}
	if signer.Validate("casos/abc/1_informe.pdf", "no-numero", sig, now) {
		t.Fatal("un expiry no numérico no debe validar")
	}
}

func TestValidateExpired(t *testing.T) {
	signer := NewSigner([]byte("secreto-de-prueba"))
	exp := time.Now().Add(-time.Minute).Unix()
	sig := signer.Sign("casos/abc/1_informe.pdf", exp)
	if signer.Validate("casos/abc/1_informe.pdf", formatInt(exp), sig, time.Now()) {
		t.Fatal("una firma vencida no debe validar")
	}
}

func TestURLEvidencia(t *testing.T) {
	signer := NewSigner([]byte("secreto-de-prueba"))
	expira := time.Now().Add(time.Hour)
	raw := signer.URLEvidencia("http://localhost:8080", "casos/abc/1_informe.pdf", expira)

	if !strings.HasPrefix(raw, "http://localhost:8080/api/evidencias/casos/abc/1_informe.pdf?") {
		t.Fatalf("URL inesperada: %s", raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsear URL: %v", err)
	}
	q := parsed.Query()
	if !signer.Validate("casos/abc/1_informe.pdf", q.Get("expires"), q.Get("sig"), time.Now()) {
		t.Fatal("la URL emitida debe validar con sus propios parámetros")
	}
}

func TestURLEvidenciaConCaracteresEspeciales(t *testing.T) {
	signer := NewSigner([]byte("secreto-de-prueba"))
	key := "casos/c1/123_informe?v2#final 100%.pdf"
	raw := signer.URLEvidencia("http://localhost:8080", key, time.Now().Add(time.Hour))

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsear URL: %v", err)
	}
	// El handler recibe la ruta ya decodificada; debe recuperar la clave
	// original intacta.
	recuperada := strings.TrimPrefix(parsed.Path, "/api/evidencias/")
	if recuperada != key {
		t.Fatalf("clave recuperada = %q, se esperaba %q", recuperada, key)
	}
	q := parsed.Query()
	if q.Get("expires") == "" || q.Get("sig") == "" {
		t.Fatalf("la consulta perdió parámetros: %q", raw)
	}
	if !signer.Validate(recuperada, q.Get("expires"), q.Get("sig"), time.Now()) {
		t.Fatal("la URL emitida debe validar aunque la clave lleve ?, # o %")
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
