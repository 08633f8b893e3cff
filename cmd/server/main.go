package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	web "weekview/internal/adapters/http"
	"weekview/internal/adapters/storage"
	calendarStore "weekview/internal/adapters/storage/calendar"
	"weekview/internal/domain/weekview"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	env := envOrDefault("WEEKVIEW_ENV", "development")
	setupLogging(env, envOrDefault("WEEKVIEW_LOG_LEVEL", "info"))

	loc, err := time.LoadLocation(envOrDefault("WEEKVIEW_TIMEZONE", "UTC"))
	if err != nil {
		log.Fatalf("invalid WEEKVIEW_TIMEZONE: %v", err)
	}
	radius, err := strconv.Atoi(envOrDefault("WEEKVIEW_PREFETCH_RADIUS", strconv.Itoa(weekview.DefaultPrefetchRadius)))
	if err != nil {
		log.Fatalf("invalid WEEKVIEW_PREFETCH_RADIUS: %v", err)
	}

	dbPath := envOrDefault("WEEKVIEW_DB", "weekview.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	store := calendarStore.NewSQLiteStore(db)
	loader, err := weekview.NewPrefetchingLoaderWithRadius(
		weekview.NewTimedLoader(weekview.NewMonthLoader(store, loc), 0),
		radius,
	)
	if err != nil {
		log.Fatalf("invalid WEEKVIEW_PREFETCH_RADIUS: %v", err)
	}

	mux := web.NewMux(web.Deps{
		EventStore: store,
		Loader:     loader,
		Location:   loc,
	}, web.Config{
		CSRFKey:        loadCSRFKey(env),
		SecureCookies:  env == "production",
		TrustedOrigins: splitList(os.Getenv("WEEKVIEW_TRUSTED_ORIGINS")),
	})

	addr := envOrDefault("WEEKVIEW_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		slog.Info("shutdown_started")
		if err := web.Shutdown(srv, 10*time.Second); err != nil {
			slog.Error("shutdown_failed", "error", err.Error())
		}
	}()

	log.Printf("weekview %s starting on %s (env=%s, schema=%d, radius=%d, tz=%s)",
		version, addr, env, storage.LatestSchemaVersion(), loader.Radius(), loc)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// setupLogging installs the default slog logger: text in development, JSON in production.
func setupLogging(env, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if env == "production" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// loadCSRFKey reads the CSRF secret from WEEKVIEW_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(env string) []byte {
	if keyHex := os.Getenv("WEEKVIEW_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("WEEKVIEW_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if env == "production" {
		log.Fatal("WEEKVIEW_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set WEEKVIEW_CSRF_KEY for production.")
	return key
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
