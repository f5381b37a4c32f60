package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/config"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/database"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/email"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/llm"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/middleware"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/push"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/scheduler"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/signaling"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/swipes"
	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/workers"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

var (
	db          *database.DB
	pushService *push.FirebaseService
	presenceHub *signaling.PresenceHub
	startTime   time.Time
	serverLogs  []string
	logsMutex   sync.RWMutex
)

const maxLogs = 100

type logWriter struct{}

func (lw logWriter) Write(p []byte) (n int, err error) {
	logsMutex.Lock()
	defer logsMutex.Unlock()

	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}

	timestamp := time.Now().Format("15:04:05")
	logEntry := fmt.Sprintf("[%s] %s", timestamp, msg)

	serverLogs = append(serverLogs, logEntry)
	if len(serverLogs) > maxLogs {
		serverLogs = serverLogs[1:]
	}

	// Echo to the console too
	fmt.Println(logEntry)

	return len(p), nil
}

func main() {
	log.SetFlags(0)
	log.SetOutput(logWriter{})

	startTime = time.Now()
	log.Println("🚀 Starting Cupid backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	db, err = database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Database error: %v", err)
	}
	defer db.Close()

	pushService, err = push.NewFirebaseService(cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("⚠️  Firebase unavailable, presence pushes disabled: %v", err)
		pushService = nil
	}

	var emailService *email.EmailService
	if cfg.EnableDigest {
		emailService, err = email.NewEmailService(cfg)
		if err != nil {
			log.Printf("⚠️  Email service not configured: %v", err)
			emailService = nil
		} else {
			log.Println("✅ Email service initialized")
		}
	}

	llmClient := llm.NewClient(cfg)
	presenceHub = signaling.NewPresenceHub()

	// A nil *FirebaseService must stay a nil interface downstream.
	var matchNotifier swipes.MatchNotifier
	var presencePusher scheduler.Pusher
	if pushService != nil {
		matchNotifier = pushService
		presencePusher = pushService
	}

	swipeService := swipes.NewService(db, cfg.DailySwipeLimit, matchNotifier)

	sch := scheduler.NewScheduler(cfg, db, presencePusher, presenceHub)
	go sch.Start(context.Background())
	log.Println("✅ Presence scheduler started")

	manager := workers.NewWorkerManager()
	manager.RegisterWorker(workers.NewScheduleRefreshWorker(cfg, db, llmClient))
	manager.RegisterWorker(workers.NewSwipePurgeWorker(db))
	if emailService != nil {
		manager.RegisterWorker(workers.NewMatchDigestWorker(db, emailService))
	}
	manager.Start()
	defer manager.Stop()

	api := newAPIServer(cfg, db, llmClient, swipeService)
	swipeGate := middleware.NewSwipeMiddleware(swipeService)

	router := mux.NewRouter()
	router.HandleFunc("/ws", presenceHub.HandleWebSocket)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/characters", api.createCharacterHandler).Methods("POST")
	apiRouter.HandleFunc("/characters/{id}", api.getCharacterHandler).Methods("GET")
	apiRouter.HandleFunc("/characters/{id}/schedule", api.parseScheduleHandler).Methods("POST")
	apiRouter.HandleFunc("/characters/{id}/schedule", api.getScheduleHandler).Methods("GET")
	apiRouter.HandleFunc("/characters/{id}/schedule/generate", api.generateScheduleHandler).Methods("POST")
	apiRouter.HandleFunc("/characters/{id}/profile", api.parseProfileHandler).Methods("POST")
	apiRouter.HandleFunc("/characters/{id}/profile", api.getProfileHandler).Methods("GET")
	apiRouter.HandleFunc("/characters/{id}/profile/generate", api.generateProfileHandler).Methods("POST")
	apiRouter.HandleFunc("/characters/{id}/status", api.getStatusHandler).Methods("GET")
	apiRouter.Handle("/swipes", swipeGate.RequireSwipeBudget(http.HandlerFunc(api.swipeHandler))).Methods("POST")
	apiRouter.HandleFunc("/swipes/remaining", api.swipesRemainingHandler).Methods("GET")
	apiRouter.HandleFunc("/stats", statsHandler).Methods("GET")
	apiRouter.HandleFunc("/health", healthCheckHandler).Methods("GET")
	if !cfg.IsProduction() {
		// Raw server logs are a debugging surface, not a production API.
		apiRouter.HandleFunc("/logs", logsHandler).Methods("GET")
	}

	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsMiddleware(router)))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-Requested-With, Accept")

		// Answer preflight immediately
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	dbStatus := false
	if db != nil && db.GetConnection() != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := db.GetConnection().PingContext(ctx); err == nil {
			dbStatus = true
		}
	}

	response := map[string]interface{}{
		"feed_clients": presenceHub.ClientCount(),
		"uptime":       formatDuration(time.Since(startTime)),
		"db_status":    dbStatus,
		"firebase_ok":  pushService != nil,
		"timestamp":    time.Now().Unix(),
	}

	json.NewEncoder(w).Encode(response)
}

func logsHandler(w http.ResponseWriter, r *http.Request) {
	logsMutex.RLock()
	defer logsMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"logs": serverLogs,
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "healthy"
	httpStatus := http.StatusOK

	if err := db.GetConnection().Ping(); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
