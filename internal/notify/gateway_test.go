package notify

import (
	"context"
	"testing"

	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/repository"
)

type correoFalso struct {
	enviados []string
	falla    bool
}

func (c *correoFalso) Enviar(_ context.Context, destinatario, asunto, mensaje string) Resultado {
	c.enviados = append(c.enviados, destinatario)
	if c.falla {
		return Resultado{OK: false, Mensaje: "smtp rechazado"}
	}
	return Resultado{OK: true, Mensaje: "Correo enviado con éxito"}
}

type whatsappFalso struct {
	textos     []string
	plantillas []string
}

func (w *whatsappFalso) EnviarTexto(_ context.Context, numero, mensaje string) Resultado {
	w.textos = append(w.textos, numero)
	return Resultado{OK: true, Mensaje: "Mensaje enviado"}
}

func (w *whatsappFalso) EnviarPlantilla(_ context.Context, numero, plantilla string, _ []string) Resultado {
	w.plantillas = append(w.plantillas, plantilla)
	return Resultado{OK: true, Mensaje: "Plantilla enviada"}
}

func TestGatewayRegistraEnviado(t *testing.T) {
	mem := repository.NewMemoria()
	correo := &correoFalso{}
	gw := NewGateway(correo, &whatsappFalso{}, repository.MemoriaComunicaciones{Memoria: mem})

	res := gw.Enviar(context.Background(), model.Notificacion{
		CasoID: "caso-1", Canal: model.CanalCorreo,
		Destinatario: "ana@empresa.com", Asunto: "Hola", Mensaje: "prueba",
	})
	if !res.OK {
		t.Fatalf("envío falló: %s", res.Mensaje)
	}
	if len(correo.enviados) != 1 {
		t.Fatalf("se esperaban 1 envío de correo, hubo %d", len(correo.enviados))
	}
	registro, err := mem.ListarPorCaso(context.Background(), "caso-1")
	if err != nil {
		t.Fatalf("listar comunicaciones: %v", err)
	}
	if len(registro) != 1 || registro[0].Estado != model.EstadoEnviado || registro[0].Tipo != model.CanalCorreo {
		t.Fatalf("registro inesperado: %+v", registro)
	}
}

func TestGatewayRegistraFallido(t *testing.T) {
	mem := repository.NewMemoria()
	gw := NewGateway(&correoFalso{falla: true}, &whatsappFalso{}, repository.MemoriaComunicaciones{Memoria: mem})

	res := gw.Enviar(context.Background(), model.Notificacion{
		CasoID: "caso-1", Canal: model.CanalCorreo,
		Destinatario: "ana@empresa.com", Asunto: "Hola", Mensaje: "prueba",
	})
	if res.OK {
		t.Fatal("el envío debería haber fallado")
	}
	registro, err := mem.ListarPorCaso(context.Background(), "caso-1")
	if err != nil {
		t.Fatalf("listar comunicaciones: %v", err)
	}
	if len(registro) != 1 || registro[0].Estado != model.EstadoFallido {
		t.Fatalf("registro inesperado: %+v", registro)
	}
}

func TestGatewaySinCasoNoRegistra(t *testing.T) {
	mem := repository.NewMemoria()
	gw := NewGateway(&correoFalso{}, &whatsappFalso{}, repository.MemoriaComunicaciones{Memoria: mem})

	gw.Enviar(context.Background(), model.Notificacion{
		Canal: model.CanalCorreo, Destinatario: "ana@empresa.com", Asunto: "x", Mensaje: "y",
	})
	registro, err := mem.ListarComunicaciones(context.Background())
	if err != nil {
		t.Fatalf("listar comunicaciones: %v", err)
	}
	if len(registro) != 0 {
		t.Fatalf("un envío sin caso no debe registrarse, hay %d", len(registro))
	}
}

func TestGatewayEligePlantilla(t *testing.T) {
	wa := &whatsappFalso{}
	gw := NewGateway(&correoFalso{}, wa, nil)

	gw.Enviar(context.Background(), model.Notificacion{
		Canal: model.CanalWhatsApp, Destinatario: "+573001234567",
		Plantilla: "visita_asignada", Parametros: []string{"caso-1"},
	})
	gw.Enviar(context.Background(), model.Notificacion{
		Canal: model.CanalWhatsApp, Destinatario: "+573001234567", Mensaje: "hola",
	})
	if len(wa.plantillas) != 1 || wa.plantillas[0] != "visita_asignada" {
		t.Fatalf("plantillas enviadas: %v", wa.plantillas)
	}
	if len(wa.textos) != 1 {
		t.Fatalf("textos enviados: %v", wa.textos)
	}
}

func TestGatewayCanalDesconocido(t *testing.T) {
	gw := NewGateway(&correoFalso{}, &whatsappFalso{}, nil)
	res := gw.Enviar(context.Background(), model.Notificacion{Canal: "Paloma", Destinatario: "x"})
	if res.OK {
		t.Fatal("un canal desconocido no puede reportar éxito")
	}
}
