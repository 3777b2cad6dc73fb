package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/api"
	"github.com/verifik-ops/visitas-backend/internal/config"
	"github.com/verifik-ops/visitas-backend/internal/database"
	"github.com/verifik-ops/visitas-backend/internal/dispatch"
	"github.com/verifik-ops/visitas-backend/internal/lifecycle"
	"github.com/verifik-ops/visitas-backend/internal/notify"
	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/s3storage"
	"github.com/verifik-ops/visitas-backend/internal/signing"
	"github.com/verifik-ops/visitas-backend/internal/tablas"
	"github.com/verifik-ops/visitas-backend/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cargar configuración: %v", err)
	}

	t := tablas.PorDefecto()
	if cfg.TablasFile != "" {
		t, err = tablas.Cargar(cfg.TablasFile)
		if err != nil {
			log.Fatalf("cargar tablas desde %s: %v", cfg.TablasFile, err)
		}
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("conectar a postgres: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("preparar esquema: %v", err)
	}

	store, err := s3storage.New(cfg)
	if err != nil {
		log.Fatalf("conectar a almacenamiento: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("preparar bucket: %v", err)
	}

	casos := repository.NewCasosPG(pool)
	comunicaciones := repository.NewComunicacionesPG(pool)
	evaluaciones := repository.NewEvaluacionesPG(pool)

	correo := notify.NewCorreo(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	whatsapp := notify.NewWhatsApp(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID)
	gateway := notify.NewGateway(correo, whatsapp, comunicaciones)

	// With Redis configured, delivery and extraction run on the asynq worker.
	// Without it, an in-process pool and goroutine extractor take over.
	var (
		despachador dispatch.Despachador
		extractor   lifecycle.Extractor
	)
	if cfg.RedisAddr != "" {
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		despachador = dispatch.NewAsynq(client)
		extractor = dispatch.NewExtractorAsynq(client)
	} else {
		localPool := dispatch.NewPool(gateway, cfg.DispatchWorkers)
		localPool.Start(ctx)
		despachador = localPool
		extractor = worker.NewExtractorLocal(store, casos)
	}

	signer := signing.NewSigner(cfg.SigningSecret)
	ctrl := lifecycle.NewControlador(casos, despachador, t, store, signer, extractor, lifecycle.Opciones{
		Estados:       cfg.Estados,
		StandbyAuto:   cfg.StandbyAuto,
		StandbyUmbral: cfg.StandbyUmbral,
		BaseURL:       cfg.PublicBaseURL,
		TTLFirma:      cfg.SignedURLTTL,
		MaxEvidencia:  cfg.MaxEvidenceSize,
	})

	server := api.New(cfg, ctrl, casos, comunicaciones, evaluaciones, gateway, signer, store)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("servidor http: %v", err)
	}
}
