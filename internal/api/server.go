// Package api provides the HTTP API server for ShootFlow.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shootflow/shootflow/internal/actions"
	"github.com/shootflow/shootflow/internal/agent"
	"github.com/shootflow/shootflow/internal/automation"
	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/intelligence"
	"github.com/shootflow/shootflow/internal/logging"
	"github.com/shootflow/shootflow/internal/storage"
	"github.com/shootflow/shootflow/pkg/metrics"
)

// Server is the HTTP API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	assistant    *agent.Router
	orchestrator *automation.Orchestrator
	scanner      *intelligence.RiskScanner
	registry     *actions.Registry
	runStore     *storage.RunStore
	convStore    *storage.ConversationStore
	wsHub        *WebSocketHub

	log       *logging.Logger
	startedAt time.Time
}

// Config for the server.
type Config struct {
	Host string
	Port int

	Assistant    *agent.Router
	Orchestrator *automation.Orchestrator
	Scanner      *intelligence.RiskScanner
	Registry     *actions.Registry
	DB           *storage.DB // Optional, enables run history and conversation log
}

// New creates the API server.
func New(cfg Config) *Server {
	registry := cfg.Registry
	if registry == nil {
		registry = actions.NewDefaultRegistry()
	}

	s := &Server{
		assistant:    cfg.Assistant,
		orchestrator: cfg.Orchestrator,
		scanner:      cfg.Scanner,
		registry:     registry,
		wsHub:        NewWebSocketHub(),
		log:          logging.WithField("component", "api"),
		startedAt:    time.Now(),
	}
	if cfg.DB != nil {
		s.runStore = storage.NewRunStore(cfg.DB)
		s.convStore = storage.NewConversationStore(cfg.DB)
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Assistant
		r.Post("/assistant/message", s.handleAssistantMessage)
		r.Get("/assistant/conversations", s.handleGetConversations)

		// Actions
		r.Get("/actions", s.handleListActions)
		r.Get("/actions/{actionID}", s.handleResolveAction)

		// Automation
		r.Post("/automation/trigger/{trigger}", s.handleRunTrigger)
		r.Get("/automation/history", s.handleAutomationHistory)
		r.Get("/automation/insights", s.handleAutomationInsights)

		// Risk
		r.Post("/risk/scan", s.handleRiskScan)

		// Status
		r.Get("/status", s.handleStatus)
	})

	r.Get("/ws", s.wsHub.ServeHTTP)
	r.Get("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP)

	s.router = r
}

// Router exposes the chi mux, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.wsHub.Run()
	s.log.Info("API server starting on http://%s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.wsHub.Close()
	return s.httpServer.Shutdown(ctx)
}

// Broadcast pushes a message to all WebSocket clients.
func (s *Server) Broadcast(msgType string, data interface{}) {
	s.wsHub.Broadcast(WebSocketMessage{Type: msgType, Data: data, Timestamp: time.Now().UTC()})
}

// metricsMiddleware records request counts and latency per route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(ww.Status()), time.Since(start))
	})
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// --- Assistant handlers ---

// MessageRequest is the assistant question payload. The client ships its
// current production snapshot alongside the question; the engines are
// stateless over it.
type MessageRequest struct {
	Text     string                `json:"text"`
	Sender   string                `json:"sender,omitempty"`
	Snapshot core.AssistantContext `json:"snapshot"`
}

func (s *Server) handleAssistantMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	msg := core.Message{Text: req.Text, SenderRole: core.SenderRole(req.Sender)}
	resp := s.assistant.Route(msg, req.Snapshot)

	if err := s.registry.ValidateResponse(resp); err != nil {
		s.log.Error("skill emitted unregistered action: %v", err)
		s.respondError(w, http.StatusInternalServerError, "internal action mapping error")
		return
	}

	metrics.RecordQuestion(string(resp.Intent), resp.Confidence, resp.Intent == core.IntentGeneral)
	if s.convStore != nil {
		if err := s.convStore.Log(req.Text, resp, req.Snapshot.CurrentKit, time.Now().UTC()); err != nil {
			s.log.Warn("conversation log failed: %v", err)
		}
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetConversations(w http.ResponseWriter, r *http.Request) {
	if s.convStore == nil {
		s.respondError(w, http.StatusNotFound, "conversation log not enabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	exchanges, err := s.convStore.Recent(limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, exchanges)
}

// --- Action handlers ---

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.registry.Targets())
}

func (s *Server) handleResolveAction(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "actionID")
	target, err := s.registry.Resolve(actionID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, target)
}

// --- Automation handlers ---

func (s *Server) handleRunTrigger(w http.ResponseWriter, r *http.Request) {
	trigger := automation.Trigger(chi.URLParam(r, "trigger"))
	if !trigger.Valid() {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown trigger %q", trigger))
		return
	}

	var snapshot core.AssistantContext
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	report, err := s.orchestrator.Run(trigger, snapshot)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, result := range report.Results {
		metrics.RecordAutomationRun(string(report.Trigger), string(result.Workflow), result.Success, result.Duration)
	}
	if s.runStore != nil {
		if err := s.runStore.Save(report); err != nil {
			s.log.Warn("run history save failed: %v", err)
		}
	}
	s.Broadcast("automation_report", report)

	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleAutomationHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if s.runStore != nil {
		runs, err := s.runStore.Recent(limit)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondJSON(w, http.StatusOK, runs)
		return
	}
	s.respondJSON(w, http.StatusOK, s.orchestrator.History(limit))
}

func (s *Server) handleAutomationInsights(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"memory": s.orchestrator.Insights(),
	}
	if s.runStore != nil {
		counts, err := s.runStore.CountsByTrigger()
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		response["stored_runs_by_trigger"] = counts
	}
	if s.convStore != nil {
		counts, err := s.convStore.IntentCounts()
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		response["questions_by_intent"] = counts
	}
	s.respondJSON(w, http.StatusOK, response)
}

// --- Risk handlers ---

func (s *Server) handleRiskScan(w http.ResponseWriter, r *http.Request) {
	var snapshot core.AssistantContext
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	report := s.scanner.Scan(snapshot)
	for _, risk := range report.Risks {
		metrics.RecordRisk(string(risk.Severity))
	}
	if hasCritical(report) {
		s.Broadcast("risk_alert", report)
	}

	s.respondJSON(w, http.StatusOK, report)
}

func hasCritical(report intelligence.ScanReport) bool {
	for _, risk := range report.Risks {
		if risk.Severity == core.SeverityCritical {
			return true
		}
	}
	return false
}

// --- Status ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
		"history": s.orchestrator.Insights(),
	})
}
