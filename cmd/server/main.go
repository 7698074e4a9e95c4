package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vgestion/vehiculos-backend/internal/auth"
	"github.com/vgestion/vehiculos-backend/internal/config"
	"github.com/vgestion/vehiculos-backend/internal/middleware"
	"github.com/vgestion/vehiculos-backend/internal/store"
	"github.com/vgestion/vehiculos-backend/internal/vehicles"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ───────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MinIO (optional) ─────────────────────────────────────
	var images vehicles.ImageStore
	if cfg.MinioEndpoint != "" {
		imageStore, err := store.NewImageStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		images = imageStore
	} else {
		log.Println("MINIO_ENDPOINT not set, image endpoints disabled")
	}

	// ── Services ─────────────────────────────────────────────
	tokens, err := auth.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL())
	if err != nil {
		log.Fatalf("token manager: %v", err)
	}
	authSvc := auth.NewService(store.NewUserStore(pool), auth.BcryptHasher{}, tokens)
	vehicleSvc := vehicles.NewService(store.NewVehicleStore(pool), images)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(authSvc)
	vehicleHandler := vehicles.NewHandler(vehicleSvc)
	requireAuth := middleware.RequireAuth(authSvc)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOriginsList(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"API de Gestión de Vehículos","version":"2.0.0"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public except /me)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/token", authHandler.Token)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	// Vehicle routes (protected)
	r.Route("/vehiculos", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", vehicleHandler.Create)
		r.Get("/", vehicleHandler.List)
		r.Get("/promedio-km", vehicleHandler.Stats)
		r.Get("/{id}", vehicleHandler.Get)
		r.Put("/{id}", vehicleHandler.Update)
		r.Delete("/{id}", vehicleHandler.Delete)
		if images != nil {
			r.Post("/{id}/imagen", vehicleHandler.UploadImage)
			r.Get("/{id}/imagen", vehicleHandler.GetImage)
		}
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
