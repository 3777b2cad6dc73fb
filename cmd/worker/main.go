package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/verifik-ops/visitas-backend/internal/config"
	"github.com/verifik-ops/visitas-backend/internal/database"
	"github.com/verifik-ops/visitas-backend/internal/notify"
	"github.com/verifik-ops/visitas-backend/internal/repository"
	"github.com/verifik-ops/visitas-backend/internal/s3storage"
	"github.com/verifik-ops/visitas-backend/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cargar configuración: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR es obligatorio para el worker")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("conectar a postgres: %v", err)
	}
	defer pool.Close()

	store, err := s3storage.New(cfg)
	if err != nil {
		log.Fatalf("conectar a almacenamiento: %v", err)
	}

	casos := repository.NewCasosPG(pool)
	comunicaciones := repository.NewComunicacionesPG(pool)
	correo := notify.NewCorreo(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	whatsapp := notify.NewWhatsApp(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID)
	gateway := notify.NewGateway(correo, whatsapp, comunicaciones)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.DispatchWorkers,
		},
	)

	procesador := worker.NewProcesador(gateway, casos, store)
	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()
	log.Printf("worker escuchando en redis %s", cfg.RedisAddr)
	if err := srv.Run(procesador.Handler()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
