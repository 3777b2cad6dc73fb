// Package api exposes the HTTP surface: casos, comunicaciones, evaluaciones,
// envíos, facturación and signed evidence downloads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/verifik-ops/visitas-backend/internal/config"
	"github.com/verifik-ops/visitas-backend/internal/export"
	"github.com/verifik-ops/visitas-backend/internal/lifecycle"
	"github.com/verifik-ops/visitas-backend/internal/model"
	"github.com/verifik-ops/visitas-backend/internal/notify"
	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/signing"
	"github.com/verifik-ops/visitas-backend/internal/validate"
)

// Descargas is the slice of object storage the download handler needs.
type Descargas interface {
	Abrir(ctx context.Context, objectKey string) (io.ReadCloser, string, error)
}

// Server wires the HTTP routes to the lifecycle controller and repositories.
type Server struct {
	cfg            *config.Config
	ctrl           *lifecycle.Controlador
	casos          repository.Casos
	comunicaciones repository.Comunicaciones
	evaluaciones   repository.Evaluaciones
	gateway        *notify.Gateway
	signer         *signing.Signer
	descargas      Descargas
	server         *http.Server
	once           sync.Once
}

// New constructs a Server.
func New(cfg *config.Config, ctrl *lifecycle.Controlador, casos repository.Casos,
	comunicaciones repository.Comunicaciones, evaluaciones repository.Evaluaciones,
	gateway *notify.Gateway, signer *signing.Signer, descargas Descargas) *Server {
	return &Server{
		cfg:            cfg,
		ctrl:           ctrl,
		casos:          casos,
		comunicaciones: comunicaciones,
		evaluaciones:   evaluaciones,
		gateway:        gateway,
		signer:         signer,
		descargas:      descargas,
	}
}

// Handler builds the routed handler with middleware; exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/casos", s.handleCasos)
	mux.HandleFunc("/api/casos/", s.handleCasoRoute)
	mux.HandleFunc("/api/comunicaciones", s.handleComunicaciones)
	mux.HandleFunc("/api/comunicaciones/", s.handleComunicacionRoute)
	mux.HandleFunc("/api/evaluaciones", s.handleEvaluaciones)
	mux.HandleFunc("/api/evaluaciones/", s.handleEvaluacionRoute)
	mux.HandleFunc("/api/envios/correo", s.handleEnvioCorreo)
	mux.HandleFunc("/api/envios/notificar", s.handleEnvioWhatsApp)
	mux.HandleFunc("/api/facturacion", s.handleFacturacion)
	mux.HandleFunc("/api/evidencias/", s.handleDescargaEvidencia)
	return corsMiddleware(s.cfg.AllowedOrigin, loggingMiddleware(mux))
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:    s.cfg.Address,
			Handler: s.Handler(),
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	log.Printf("api escuchando en %s", s.cfg.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- casos ---

func (s *Server) handleCasos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		casos, err := s.casos.Listar(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Error al obtener los casos")
			return
		}
		respondJSON(w, http.StatusOK, casos)
	case http.MethodPost:
		s.handleCrearCaso(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
	}
}

func (s *Server) handleCrearCaso(w http.ResponseWriter, r *http.Request) {
	var caso model.Caso
	if err := json.NewDecoder(r.Body).Decode(&caso); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	if errores := validate.Struct(&caso); errores != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Nombre, teléfono y estado son obligatorios",
			"campos": errores,
		})
		return
	}
	creado, err := s.ctrl.CrearCaso(r.Context(), &caso)
	if err != nil {
		s.respondCasoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Caso creado con éxito",
		"data":    creado,
	})
}

func (s *Server) handleCasoRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/casos/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleObtenerCaso(w, r, id)
		case http.MethodPut:
			s.handleActualizarCaso(w, r, id)
		default:
			respondError(w, http.StatusMethodNotAllowed, "método no permitido")
		}
		return
	}
	if parts[1] == "evidencia" && r.Method == http.MethodPost {
		s.handleSubirEvidencia(w, r, id)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleObtenerCaso(w http.ResponseWriter, r *http.Request, id string) {
	caso, err := s.casos.Obtener(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			respondError(w, http.StatusNotFound, "Caso no encontrado")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error al obtener el caso")
		return
	}
	respondJSON(w, http.StatusOK, caso)
}

func (s *Server) handleActualizarCaso(w http.ResponseWriter, r *http.Request, id string) {
	var cambio lifecycle.Actualizacion
	if err := json.NewDecoder(r.Body).Decode(&cambio); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	caso, err := s.ctrl.ActualizarEstado(r.Context(), id, cambio)
	if err != nil {
		s.respondCasoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Caso actualizado con éxito",
		"data":    caso,
	})
}

// handleSubirEvidencia accepts a multipart upload in the field "archivo",
// bounded to the configured ceiling. The payload stays in memory for the
// duration of the call.
func (s *Server) handleSubirEvidencia(w http.ResponseWriter, r *http.Request, id string) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxEvidenceSize+64<<10)
	archivo, header, err := r.FormFile("archivo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No se ha subido ningún archivo")
		return
	}
	defer archivo.Close()
	datos, err := io.ReadAll(io.LimitReader(archivo, s.cfg.MaxEvidenceSize+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "No se pudo leer el archivo")
		return
	}
	if int64(len(datos)) > s.cfg.MaxEvidenceSize {
		respondError(w, http.StatusBadRequest, "El archivo supera el límite de 5 MiB")
		return
	}
	contentType := header.Header.Get("Content-Type")
	url, err := s.ctrl.AdjuntarEvidencia(r.Context(), id, header.Filename, contentType, datos)
	if err != nil {
		s.respondCasoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Evidencia subida con éxito",
		"url":     url,
	})
}

func (s *Server) respondCasoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrValidacion):
		respondError(w, http.StatusBadRequest, mensajeDe(err))
	case errors.Is(err, lifecycle.ErrEstadoInvalido):
		respondError(w, http.StatusBadRequest, "Estado no válido")
	case errors.Is(err, repository.ErrIDDuplicado):
		respondError(w, http.StatusBadRequest, "El ID del caso ya existe. Prueba con otro ID.")
	case errors.Is(err, repository.ErrNoEncontrado):
		respondError(w, http.StatusNotFound, "Caso no encontrado")
	default:
		log.Printf("error de caso: %v", err)
		respondError(w, http.StatusInternalServerError, "Error interno")
	}
}

// --- comunicaciones ---

func (s *Server) handleComunicaciones(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		lista, err := s.comunicaciones.Listar(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Error al obtener las comunicaciones")
			return
		}
		respondJSON(w, http.StatusOK, lista)
	case http.MethodPost:
		s.handleRegistrarComunicacion(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
	}
}

func (s *Server) handleRegistrarComunicacion(w http.ResponseWriter, r *http.Request) {
	var c model.Comunicacion
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	if errores := validate.Struct(&c); errores != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Todos los campos son obligatorios",
			"campos": errores,
		})
		return
	}
	if !s.verificarCaso(w, r, c.CasoID) {
		return
	}
	if err := s.comunicaciones.Registrar(r.Context(), &c); err != nil {
		respondError(w, http.StatusInternalServerError, "Error al registrar la comunicación")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Comunicación registrada con éxito",
		"data":    c,
	})
}

func (s *Server) handleComunicacionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/comunicaciones/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if parts[0] == "caso" && len(parts) == 2 && r.Method == http.MethodGet {
		lista, err := s.comunicaciones.ListarPorCaso(r.Context(), parts[1])
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Error al obtener las comunicaciones del caso")
			return
		}
		respondJSON(w, http.StatusOK, lista)
		return
	}
	if len(parts) == 1 && r.Method == http.MethodDelete {
		if err := s.comunicaciones.Eliminar(r.Context(), parts[0]); err != nil {
			if errors.Is(err, repository.ErrNoEncontrado) {
				respondError(w, http.StatusNotFound, "La comunicación no existe")
				return
			}
			respondError(w, http.StatusInternalServerError, "Error al eliminar la comunicación")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Comunicación eliminada correctamente"})
		return
	}
	http.NotFound(w, r)
}

// --- evaluaciones ---

func (s *Server) handleEvaluaciones(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		lista, err := s.evaluaciones.Listar(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Error al obtener las evaluaciones")
			return
		}
		respondJSON(w, http.StatusOK, lista)
	case http.MethodPost:
		s.handleCrearEvaluacion(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
	}
}

func (s *Server) handleCrearEvaluacion(w http.ResponseWriter, r *http.Request) {
	var e model.Evaluacion
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	if errores := validate.Struct(&e); errores != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "caso_id y fecha_programada son obligatorios",
			"campos": errores,
		})
		return
	}
	if _, err := s.casos.Obtener(r.Context(), e.CasoID); err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			respondError(w, http.StatusNotFound, "El caso no existe")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error al verificar el caso")
		return
	}
	if err := s.evaluaciones.Crear(r.Context(), &e); err != nil {
		respondError(w, http.StatusInternalServerError, "Error al registrar la evaluación")
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

func (s *Server) handleEvaluacionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/evaluaciones/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	if len(parts) == 1 && r.Method == http.MethodGet {
		e, err := s.evaluaciones.Obtener(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNoEncontrado) {
				respondError(w, http.StatusNotFound, "La evaluación no existe")
				return
			}
			respondError(w, http.StatusInternalServerError, "Error al obtener la evaluación")
			return
		}
		respondJSON(w, http.StatusOK, e)
		return
	}
	if len(parts) == 2 && parts[1] == "completar" && r.Method == http.MethodPut {
		if err := s.evaluaciones.Completar(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, repository.ErrNoEncontrado):
				respondError(w, http.StatusNotFound, "La evaluación no existe")
			case errors.Is(err, repository.ErrYaCompletada):
				respondError(w, http.StatusBadRequest, "La evaluación ya está completada")
			default:
				respondError(w, http.StatusInternalServerError, "Error al completar la evaluación")
			}
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "Evaluación completada"})
		return
	}
	http.NotFound(w, r)
}

// --- envíos ad hoc ---

func (s *Server) handleEnvioCorreo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
		return
	}
	var req struct {
		Email   string `json:"email"`
		Asunto  string `json:"asunto"`
		Mensaje string `json:"mensaje"`
		CasoID  string `json:"caso_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	if req.Email == "" || req.Asunto == "" || req.Mensaje == "" {
		respondError(w, http.StatusBadRequest, "Se requiere email, asunto y mensaje")
		return
	}
	if !s.verificarCaso(w, r, req.CasoID) {
		return
	}
	res := s.gateway.Enviar(r.Context(), model.Notificacion{
		CasoID: req.CasoID, Canal: model.CanalCorreo,
		Destinatario: req.Email, Asunto: req.Asunto, Mensaje: req.Mensaje,
	})
	if !res.OK {
		respondError(w, http.StatusInternalServerError, res.Mensaje)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Correo enviado con éxito"})
}

func (s *Server) handleEnvioWhatsApp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
		return
	}
	var req struct {
		Telefono   string   `json:"telefono"`
		Mensaje    string   `json:"mensaje"`
		CasoID     string   `json:"caso_id"`
		Plantilla  string   `json:"plantilla"`
		Parametros []string `json:"parametros"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "JSON inválido en la solicitud")
		return
	}
	if req.Telefono == "" || (req.Mensaje == "" && req.Plantilla == "") {
		respondError(w, http.StatusBadRequest, "Se requiere teléfono y mensaje")
		return
	}
	if !s.verificarCaso(w, r, req.CasoID) {
		return
	}
	res := s.gateway.Enviar(r.Context(), model.Notificacion{
		CasoID: req.CasoID, Canal: model.CanalWhatsApp,
		Destinatario: req.Telefono, Mensaje: req.Mensaje,
		Plantilla: req.Plantilla, Parametros: req.Parametros,
	})
	if !res.OK {
		respondError(w, http.StatusInternalServerError, res.Mensaje)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "WhatsApp enviado con éxito"})
}

// verificarCaso rejects a non-empty caso_id that references no existing caso,
// so the attempt can always land in the communication log.
func (s *Server) verificarCaso(w http.ResponseWriter, r *http.Request, casoID string) bool {
	if casoID == "" {
		return true
	}
	if _, err := s.casos.Obtener(r.Context(), casoID); err != nil {
		if errors.Is(err, repository.ErrNoEncontrado) {
			respondError(w, http.StatusNotFound, "El caso referenciado no existe")
			return false
		}
		respondError(w, http.StatusInternalServerError, "Error al verificar el caso")
		return false
	}
	return true
}

// --- facturación ---

func (s *Server) handleFacturacion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
		return
	}
	desde := r.URL.Query().Get("startDate")
	hasta := r.URL.Query().Get("endDate")
	if desde == "" || hasta == "" {
		respondError(w, http.StatusBadRequest, "Se requieren las fechas de inicio y fin")
		return
	}
	casos, err := s.casos.ListarPorFechaVisita(r.Context(), desde, hasta)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error al obtener los registros")
		return
	}
	doc, err := export.RelacionDeCobro(casos)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error al generar el documento")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename=Relacion_de_Cobro.csv`)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// --- evidencia descarga firmada ---

func (s *Server) handleDescargaEvidencia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "método no permitido")
		return
	}
	objectKey := strings.TrimPrefix(r.URL.Path, "/api/evidencias/")
	if objectKey == "" {
		http.NotFound(w, r)
		return
	}
	expires := r.URL.Query().Get("expires")
	sig := r.URL.Query().Get("sig")
	if !s.signer.Validate(objectKey, expires, sig, time.Now()) {
		respondError(w, http.StatusForbidden, "Enlace inválido o vencido")
		return
	}
	obj, contentType, err := s.descargas.Abrir(r.Context(), objectKey)
	if err != nil {
		respondError(w, http.StatusNotFound, "Evidencia no encontrada")
		return
	}
	defer obj.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj)
}

// --- helpers ---

func mensajeDe(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, mensaje string) {
	respondJSON(w, status, map[string]string{"error": mensaje})
}

func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
