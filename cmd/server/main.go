// Package main provides a local HTTP server for development and testing.
// It exposes the projection pipeline and quote persistence endpoints that
// the frontend calls on every relevant input change.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"investment-projection-engine/internal/config"
	"investment-projection-engine/internal/handlers"
	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/services/database"
	"investment-projection-engine/internal/services/snapshot"
	"investment-projection-engine/internal/utils"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server holds all dependencies
type Server struct {
	db        *database.DB
	quoteRepo *database.QuoteRepository
	snapshots *snapshot.Service
	config    *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QuoteRequest is the persist-quote request body: the compute request plus
// naming. Results are computed server-side before storing so the record
// always matches its inputs.
type QuoteRequest struct {
	PropertyName  string                      `json:"property_name"`
	ClientName    string                      `json:"client_name,omitempty"`
	Inputs        models.OIInputs             `json:"inputs"`
	Mortgage      *models.MortgageInputs      `json:"mortgage,omitempty"`
	ExtractedPlan *models.AIPaymentPlanResult `json:"extracted_plan,omitempty"`
}

// PlanImportResponse reports the outcome of a payment-plan CSV upload.
type PlanImportResponse struct {
	Milestones []models.PaymentMilestone `json:"milestones"`
	Errors     []string                  `json:"errors,omitempty"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config from environment: %v", err)
		cfg = &config.Config{}
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Server will run in compute-only mode without persistence")
	}

	server := &Server{
		db:     db,
		config: cfg,
	}

	if db != nil {
		server.quoteRepo = database.NewQuoteRepository(db)
	}

	// Snapshot archive is optional: exports are rejected without it.
	snapSvc, err := snapshot.NewService(context.Background())
	if err != nil {
		log.Printf("Warning: Could not initialize snapshot service: %v", err)
	}
	server.snapshots = snapSvc

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Compute a projection (no persistence)
	mux.HandleFunc("/api/projection", server.projectionHandler)

	// Payment-plan CSV import (bulk milestone entry)
	mux.HandleFunc("/api/plan/import", server.planImportHandler)

	// Quote persistence
	mux.HandleFunc("/api/quotes", server.quotesHandler)
	mux.HandleFunc("/api/quotes/", server.quoteByIDHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := cfg.ServerAddress
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("Investment Projection Engine API Server")
	log.Printf("Listening on %s", addr)
	log.Printf("Health: http://localhost%s/health", addr)

	// Start server (this blocks until error)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err == nil {
			dbStatus = "connected"
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Investment Projection Engine API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	})
}

func (s *Server) projectionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req handlers.ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := handlers.Compute(s.config, &req)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

func (s *Server) planImportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	content, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Failed to read body"})
		return
	}

	parser := utils.NewPlanParser()
	milestones, parseErrors := parser.ParseMilestones(string(content))

	resp := PlanImportResponse{Milestones: milestones}
	for _, e := range parseErrors {
		resp.Errors = append(resp.Errors, e.Error())
	}

	if len(milestones) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Success: false, Error: "No valid milestones in upload", Data: resp})
		return
	}

	utils.Logger.Info("Imported payment plan",
		zap.Int("milestones", len(milestones)),
		zap.Int("row_errors", len(parseErrors)),
	)

	writeJSON(w, http.StatusOK, Response{Success: true, Data: resp})
}

func (s *Server) quotesHandler(w http.ResponseWriter, r *http.Request) {
	if s.quoteRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Persistence not configured"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		summaries, err := s.quoteRepo.List(r.Context(), limit, offset)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Data: summaries})

	case http.MethodPost:
		var req QuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
			return
		}

		result, err := handlers.Compute(s.config, &handlers.ProjectionRequest{
			Inputs:        req.Inputs,
			Mortgage:      req.Mortgage,
			ExtractedPlan: req.ExtractedPlan,
		})
		if err != nil {
			writeComputeError(w, err)
			return
		}

		id, err := s.quoteRepo.Create(r.Context(), &models.QuoteCreate{
			PropertyName: req.PropertyName,
			ClientName:   req.ClientName,
			Inputs:       req.Inputs,
			Mortgage:     req.Mortgage,
			Projection:   result.Projection,
			Exits:        result.Exits,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
			return
		}

		utils.Logger.Info("Stored quote",
			zap.String("quote_id", id),
			zap.String("property", req.PropertyName),
		)

		writeJSON(w, http.StatusCreated, Response{Success: true, Data: map[string]string{"id": id}})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) quoteByIDHandler(w http.ResponseWriter, r *http.Request) {
	if s.quoteRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Persistence not configured"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/quotes/")
	id, action := rest, ""
	if i := strings.Index(rest, "/"); i >= 0 {
		id, action = rest[:i], rest[i+1:]
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		quote, err := s.quoteRepo.GetByID(r.Context(), id)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Data: quote})

	case action == "" && r.Method == http.MethodDelete:
		if err := s.quoteRepo.Delete(r.Context(), id); err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "Quote deleted"})

	case action == "export" && r.Method == http.MethodGet:
		s.exportQuote(w, r, id)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// exportQuote archives the quote record and returns a presigned download URL.
func (s *Server) exportQuote(w http.ResponseWriter, r *http.Request, id string) {
	if s.snapshots == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Snapshot archive not configured"})
		return
	}

	quote, err := s.quoteRepo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	key, err := s.snapshots.Archive(r.Context(), quote)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	if err := s.quoteRepo.SetSnapshotKey(r.Context(), id, key); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	download, err := s.snapshots.PresignDownload(r.Context(), key, 15)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: download})
}

// writeComputeError maps pipeline errors onto statuses: structural plan
// problems and horizon overruns are client errors with descriptive bodies.
func writeComputeError(w http.ResponseWriter, err error) {
	var schedErr *models.ScheduleError
	var rangeErr *models.OutOfRangeError
	status := http.StatusBadRequest
	if errors.As(err, &schedErr) || errors.As(err, &rangeErr) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, Response{Success: false, Error: err.Error()})
}

func writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrQuoteNotFound) {
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("Failed to encode response: %v\n", err)
	}
}
