package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gridironsim/mock-draft-service/internal/auth"
	"github.com/gridironsim/mock-draft-service/internal/catalog"
	"github.com/gridironsim/mock-draft-service/internal/handlers"
	"github.com/gridironsim/mock-draft-service/internal/logger"
	"github.com/gridironsim/mock-draft-service/internal/models"
	"github.com/gridironsim/mock-draft-service/internal/pubsub"
	"github.com/gridironsim/mock-draft-service/internal/session"
)

var (
	manager      *session.Manager
	authProvider auth.AuthProvider
)

func main() {
	// Initialize logger first
	logger.Init()

	logger.Info("Starting gridiron mock draft service")

	// Catalog source selection
	source, err := buildCatalogSource()
	if err != nil {
		logger.Error("Failed to initialize catalog source", "error", err)
		log.Fatalf("Failed to initialize catalog source: %v", err)
	}

	// Draft construction parameters
	settings := models.Settings{
		NumTeams:      envInt("NUM_TEAMS", 12),
		NumRounds:     envInt("NUM_ROUNDS", 15),
		UserTeamIndex: envInt("USER_SLOT", 6) - 1, // USER_SLOT is 1-based
		Seed:          int64(envInt("DRAFT_SEED", 0)),
	}
	if lineup := envInt("LINEUP_SIZE", 0); lineup > 0 {
		settings.EnsureRoundsCover(lineup)
	}

	manager, err = session.NewManager(context.Background(), source, settings)
	if err != nil {
		logger.Error("Failed to construct draft", "error", err)
		log.Fatalf("Failed to construct draft: %v", err)
	}

	// Pub/sub: embedded NATS in development, real NATS JetStream in production
	natsSubject := os.Getenv("NATS_SUBJECT")
	if natsSubject == "" {
		natsSubject = "draft.picks"
	}

	environment := os.Getenv("ENVIRONMENT")
	var upstream pubsub.Upstream

	if environment == "" || environment == "development" {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = natsSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
	} else {
		natsURL := os.Getenv("NATS_URL")
		if natsURL == "" {
			natsURL = "nats://localhost:4222"
		}
		realNats, err := pubsub.NewNATSPubSub(natsURL, natsSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		upstream = realNats
		logger.Info("Connected to NATS", "url", natsURL)
	}

	ps := pubsub.NewWithUpstream(upstream)

	// Authentication: mock in development, OIDC in production
	if environment == "" || environment == "development" {
		logger.Info("Using mock authentication for local development")
		authProvider = auth.NewMockAuth()
	} else {
		baseURL := os.Getenv("AUTH_BASE_URL")
		clientID := os.Getenv("AUTH_CLIENT_ID")
		clientSecret := os.Getenv("AUTH_CLIENT_SECRET")
		redirectURL := os.Getenv("AUTH_REDIRECT_URL")

		if baseURL == "" || clientID == "" || clientSecret == "" {
			logger.Error("AUTH_BASE_URL, AUTH_CLIENT_ID, and AUTH_CLIENT_SECRET are required for production")
			log.Fatal("AUTH_BASE_URL, AUTH_CLIENT_ID, and AUTH_CLIENT_SECRET are required for production")
		}
		if redirectURL == "" {
			redirectURL = "http://localhost:3000/auth/callback"
		}

		authProvider = auth.NewOIDCAuth(&auth.OIDCConfig{
			BaseURL:      baseURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
		})
		logger.Info("Connected to identity provider", "url", baseURL)
	}

	// Routes
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	// Draft API
	api := handlers.NewAPIHandlers(manager, ps)
	mux.HandleFunc("/api/draft/state", api.GetDraftState)
	mux.HandleFunc("/api/draft/available", api.GetAvailablePlayers)
	mux.HandleFunc("/api/draft/summary", api.GetSummary)
	mux.HandleFunc("/api/draft/pick/user", api.UserPick)
	mux.HandleFunc("/api/draft/pick/bot", api.BotPick)
	mux.HandleFunc("/api/draft/restart", authProvider.Middleware(api.RestartDraft))

	// SSE for realtime updates
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	addr := "0.0.0.0:" + port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// buildCatalogSource selects the ADP catalog driver from CATALOG_DRIVER:
// static, csv (default), sqlite, postgres, or clickhouse.
func buildCatalogSource() (catalog.Source, error) {
	driver := os.Getenv("CATALOG_DRIVER")
	if driver == "" {
		driver = "csv"
	}

	switch driver {
	case "static":
		logger.Info("Using built-in static catalog")
		return catalog.NewStaticSource(catalog.DefaultPlayers()), nil

	case "csv":
		path := os.Getenv("CATALOG_FILE")
		if path == "" {
			path = "ADP_Table.csv"
		}
		logger.Info("Using CSV catalog source", "file", path)
		return catalog.NewCSVSource(path), nil

	case "sqlite":
		dbPath := os.Getenv("SQLITE_FILE")
		if dbPath == "" {
			dbPath = "adp.sqlite"
		}
		logger.Info("Using SQLite catalog source", "file", dbPath)
		return catalog.NewSQLiteSource(dbPath, os.Getenv("CATALOG_TABLE"))

	case "postgres":
		connString := os.Getenv("DATABASE_URL")
		if connString == "" {
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		logger.Info("Using Postgres catalog source")
		return catalog.NewPostgresSource(connString, os.Getenv("CATALOG_TABLE"))

	case "clickhouse":
		addr := os.Getenv("CLICKHOUSE_ADDR")
		if addr == "" {
			addr = "localhost:9000"
		}
		database := os.Getenv("CLICKHOUSE_DB")
		if database == "" {
			database = "default"
		}
		username := os.Getenv("CLICKHOUSE_USER")
		if username == "" {
			username = "default"
		}
		logger.Info("Using ClickHouse catalog source", "address", addr, "database", database)
		return catalog.NewClickHouseSource(addr, database, username, os.Getenv("CLICKHOUSE_PASSWORD"), os.Getenv("CATALOG_TABLE"))

	default:
		log.Fatalf("Unknown CATALOG_DRIVER: %s (valid: static, csv, sqlite, postgres, clickhouse)", driver)
		return nil, nil
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %q", name, raw)
	}
	return n
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if manager != nil {
		state := manager.State()
		checks["draft"] = map[string]interface{}{
			"status":   "healthy",
			"round":    state.CurrentRound,
			"finished": state.Finished,
		}
	} else {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["draft"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// livenessHandler handles Kubernetes liveness probes.
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes.
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if manager == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "not_ready",
			"reason":    "draft_not_constructed",
			"timestamp": time.Now().Unix(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
