package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verifik-ops/visitas-backend/internal/model"
)

// Memoria is an in-memory implementation of the three repositories guarded by
// a RWMutex. The lifecycle and API tests run against it; it keeps the same
// existence/uniqueness semantics as the Postgres implementations.
type Memoria struct {
	mu             sync.RWMutex
	casos          map[string]*model.Caso
	comunicaciones map[string]*model.Comunicacion
	evaluaciones   map[string]*model.Evaluacion
}

// NewMemoria constructs an empty store.
func NewMemoria() *Memoria {
	return &Memoria{
		casos:          make(map[string]*model.Caso),
		comunicaciones: make(map[string]*model.Comunicacion),
		evaluaciones:   make(map[string]*model.Evaluacion),
	}
}

// Crear inserts a caso, rejecting duplicate ids.
func (m *Memoria) Crear(_ context.Context, caso *model.Caso) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.casos[caso.ID]; ok {
		return ErrIDDuplicado
	}
	copia := *caso
	m.casos[caso.ID] = &copia
	return nil
}

// Obtener returns a copy of the caso.
func (m *Memoria) Obtener(_ context.Context, id string) (*model.Caso, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	caso, ok := m.casos[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := *caso
	return &copia, nil
}

// Listar returns every caso ordered by ultima_interaccion descending.
func (m *Memoria) Listar(_ context.Context) ([]model.Caso, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Caso, 0, len(m.casos))
	for _, caso := range m.casos {
		out = append(out, *caso)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UltimaInteraccion.After(out[j].UltimaInteraccion)
	})
	return out, nil
}

// ListarPorFechaVisita filters by the inclusive fecha_visita range.
func (m *Memoria) ListarPorFechaVisita(_ context.Context, desde, hasta string) ([]model.Caso, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Caso, 0)
	for _, caso := range m.casos {
		if caso.FechaVisita >= desde && caso.FechaVisita <= hasta {
			out = append(out, *caso)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Regional != out[j].Regional {
			return out[i].Regional < out[j].Regional
		}
		return out[i].FechaVisita < out[j].FechaVisita
	})
	return out, nil
}

// Actualizar overwrites the workflow fields of an existing caso.
func (m *Memoria) Actualizar(_ context.Context, caso *model.Caso) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existente, ok := m.casos[caso.ID]
	if !ok {
		return ErrNoEncontrado
	}
	existente.Estado = caso.Estado
	existente.IntentosContacto = caso.IntentosContacto
	existente.MotivoNoProgramacion = caso.MotivoNoProgramacion
	existente.Observaciones = caso.Observaciones
	existente.FechaVisita = caso.FechaVisita
	existente.HoraVisita = caso.HoraVisita
	existente.UltimaInteraccion = caso.UltimaInteraccion
	return nil
}

// ActualizarEvidencia stores the newest evidence reference.
func (m *Memoria) ActualizarEvidencia(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	caso, ok := m.casos[id]
	if !ok {
		return ErrNoEncontrado
	}
	caso.EvidenciaURL = url
	return nil
}

// ActualizarEvidenciaTexto stores the extracted evidence text.
func (m *Memoria) ActualizarEvidenciaTexto(_ context.Context, id, texto string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	caso, ok := m.casos[id]
	if !ok {
		return ErrNoEncontrado
	}
	caso.EvidenciaTexto = texto
	return nil
}

// Registrar appends a communication attempt.
func (m *Memoria) Registrar(_ context.Context, c *model.Comunicacion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreadaEn.IsZero() {
		c.CreadaEn = time.Now().UTC()
	}
	copia := *c
	m.comunicaciones[c.ID] = &copia
	return nil
}

// ListarComunicaciones is exposed through the Comunicaciones interface.
func (m *Memoria) ListarComunicaciones(ctx context.Context) ([]model.Comunicacion, error) {
	return m.listarComunicaciones(func(*model.Comunicacion) bool { return true })
}

// ListarPorCaso returns the attempts for one caso.
func (m *Memoria) ListarPorCaso(_ context.Context, casoID string) ([]model.Comunicacion, error) {
	return m.listarComunicaciones(func(c *model.Comunicacion) bool { return c.CasoID == casoID })
}

func (m *Memoria) listarComunicaciones(keep func(*model.Comunicacion) bool) ([]model.Comunicacion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Comunicacion, 0)
	for _, c := range m.comunicaciones {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreadaEn.After(out[j].CreadaEn)
	})
	return out, nil
}

// Eliminar removes an attempt, ErrNoEncontrado when absent.
func (m *Memoria) Eliminar(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comunicaciones[id]; !ok {
		return ErrNoEncontrado
	}
	delete(m.comunicaciones, id)
	return nil
}

// Crear (evaluaciones) inserts a pending evaluación.
func (m *Memoria) CrearEvaluacion(_ context.Context, e *model.Evaluacion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreadaEn.IsZero() {
		e.CreadaEn = time.Now().UTC()
	}
	e.Completada = false
	copia := *e
	m.evaluaciones[e.ID] = &copia
	return nil
}

// ObtenerEvaluacion returns an evaluación by id.
func (m *Memoria) ObtenerEvaluacion(_ context.Context, id string) (*model.Evaluacion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.evaluaciones[id]
	if !ok {
		return nil, ErrNoEncontrado
	}
	copia := *e
	return &copia, nil
}

// ListarEvaluaciones returns every evaluación.
func (m *Memoria) ListarEvaluaciones(_ context.Context) ([]model.Evaluacion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Evaluacion, 0, len(m.evaluaciones))
	for _, e := range m.evaluaciones {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreadaEn.After(out[j].CreadaEn)
	})
	return out, nil
}

// Completar flips the monotonic flag.
func (m *Memoria) Completar(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evaluaciones[id]
	if !ok {
		return ErrNoEncontrado
	}
	if e.Completada {
		return ErrYaCompletada
	}
	e.Completada = true
	return nil
}

// MemoriaEvaluaciones adapts Memoria to the Evaluaciones interface, whose
// method names collide with the caso ones on the shared struct.
type MemoriaEvaluaciones struct{ *Memoria }

func (m MemoriaEvaluaciones) Crear(ctx context.Context, e *model.Evaluacion) error {
	return m.CrearEvaluacion(ctx, e)
}

func (m MemoriaEvaluaciones) Obtener(ctx context.Context, id string) (*model.Evaluacion, error) {
	return m.ObtenerEvaluacion(ctx, id)
}

func (m MemoriaEvaluaciones) Listar(ctx context.Context) ([]model.Evaluacion, error) {
	return m.ListarEvaluaciones(ctx)
}

// MemoriaComunicaciones adapts Memoria to the Comunicaciones interface.
type MemoriaComunicaciones struct{ *Memoria }

func (m MemoriaComunicaciones) Listar(ctx context.Context) ([]model.Comunicacion, error) {
	return m.ListarComunicaciones(ctx)
}
