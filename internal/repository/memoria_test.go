package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

func TestMemoriaCasos(t *testing.T) {
	mem := NewMemoria()
	ctx := context.Background()

	caso := &model.Caso{ID: "c1", Nombre: "Ana", Telefono: "+573001234567", Estado: "pendiente"}
	if err := mem.Crear(ctx, caso); err != nil {
		t.Fatalf("Crear: %v", err)
	}
	if err := mem.Crear(ctx, caso); !errors.Is(err, ErrIDDuplicado) {
		t.Fatalf("crear duplicado: se esperaba ErrIDDuplicado, hubo %v", err)
	}
	if _, err := mem.Obtener(ctx, "no-existe"); !errors.Is(err, ErrNoEncontrado) {
		t.Fatalf("obtener inexistente: se esperaba ErrNoEncontrado, hubo %v", err)
	}

	obtenido, err := mem.Obtener(ctx, "c1")
	if err != nil {
		t.Fatalf("Obtener: %v", err)
	}
	obtenido.Nombre = "Mutado"
	otraVez, _ := mem.Obtener(ctx, "c1")
	if otraVez.Nombre != "Ana" {
		t.Fatal("Obtener debe devolver una copia, no el puntero interno")
	}
}

func TestMemoriaListarOrdenado(t *testing.T) {
	mem := NewMemoria()
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"viejo", "medio", "reciente"} {
		caso := &model.Caso{ID: id, Nombre: id, Telefono: "+573001234567", Estado: "pendiente",
			UltimaInteraccion: base.Add(time.Duration(i) * time.Minute)}
		if err := mem.Crear(ctx, caso); err != nil {
			t.Fatalf("Crear %s: %v", id, err)
		}
	}
	lista, err := mem.Listar(ctx)
	if err != nil {
		t.Fatalf("Listar: %v", err)
	}
	if len(lista) != 3 || lista[0].ID != "reciente" || lista[2].ID != "viejo" {
		t.Fatalf("orden inesperado: %v", ids(lista))
	}
}

func TestMemoriaListarPorFechaVisita(t *testing.T) {
	mem := NewMemoria()
	ctx := context.Background()

	fechas := map[string]string{"a": "2026-08-01", "b": "2026-08-15", "c": "2026-09-01"}
	for id, fecha := range fechas {
		if err := mem.Crear(ctx, &model.Caso{ID: id, Nombre: id, FechaVisita: fecha}); err != nil {
			t.Fatalf("Crear %s: %v", id, err)
		}
	}
	lista, err := mem.ListarPorFechaVisita(ctx, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("ListarPorFechaVisita: %v", err)
	}
	if len(lista) != 2 {
		t.Fatalf("rango inclusivo debía traer 2 casos, trajo %d: %v", len(lista), ids(lista))
	}
}

func TestMemoriaComunicaciones(t *testing.T) {
	mem := NewMemoria()
	ctx := context.Background()

	c := &model.Comunicacion{CasoID: "c1", Tipo: model.CanalCorreo, Estado: model.EstadoEnviado, Comentario: "ok"}
	if err := mem.Registrar(ctx, c); err != nil {
		t.Fatalf("Registrar: %v", err)
	}
	if c.ID == "" || c.CreadaEn.IsZero() {
		t.Fatalf("Registrar debe asignar id y fecha: %+v", c)
	}
	porCaso, err := mem.ListarPorCaso(ctx, "c1")
	if err != nil {
		t.Fatalf("ListarPorCaso: %v", err)
	}
	if len(porCaso) != 1 {
		t.Fatalf("se esperaba 1 comunicación, hay %d", len(porCaso))
	}
	if err := mem.Eliminar(ctx, c.ID); err != nil {
		t.Fatalf("Eliminar: %v", err)
	}
	if err := mem.Eliminar(ctx, c.ID); !errors.Is(err, ErrNoEncontrado) {
		t.Fatalf("eliminar dos veces: se esperaba ErrNoEncontrado, hubo %v", err)
	}
}

func TestMemoriaEvaluacionCompletadaEsMonotona(t *testing.T) {
	mem := NewMemoria()
	ctx := context.Background()

	e := &model.Evaluacion{CasoID: "c1", FechaProgramada: "2026-09-01", Completada: true}
	if err := mem.CrearEvaluacion(ctx, e); err != nil {
		t.Fatalf("CrearEvaluacion: %v", err)
	}
	creada, _ := mem.ObtenerEvaluacion(ctx, e.ID)
	if creada.Completada {
		t.Fatal("una evaluación siempre nace pendiente")
	}
	if err := mem.Completar(ctx, e.ID); err != nil {
		t.Fatalf("Completar: %v", err)
	}
	if err := mem.Completar(ctx, e.ID); !errors.Is(err, ErrYaCompletada) {
		t.Fatalf("completar dos veces: se esperaba ErrYaCompletada, hubo %v", err)
	}
	if err := mem.Completar(ctx, "no-existe"); !errors.Is(err, ErrNoEncontrado) {
		t.Fatalf("completar inexistente: se esperaba ErrNoEncontrado, hubo %v", err)
	}
}

func ids(casos []model.Caso) []string {
	out := make([]string, len(casos))
	for i, c := range casos {
		out[i] = c.ID
	}
	return out
}
