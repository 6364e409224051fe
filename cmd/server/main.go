// Package main provides the Insurex API server: coverage analysis,
// dispute forecasting, pre-hospitalization guidance, hospital search and
// authentication endpoints consumed by the frontend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"insurex/internal/config"
	"insurex/internal/engine/coverage"
	"insurex/internal/engine/dispute"
	"insurex/internal/engine/prehosp"
	"insurex/internal/models"
	"insurex/internal/services/auth"
	"insurex/internal/services/database"
	"insurex/internal/services/hospitals"
	"insurex/internal/services/otp"
	"insurex/internal/services/ses"
	"insurex/internal/utils"

	"github.com/rs/cors"
)

// Server holds all dependencies
type Server struct {
	db           *database.DB
	analysisRepo *database.AnalysisRepository
	policyRepo   *database.PolicyRepository
	otpStore     *otp.Store
	mailer       otp.Mailer
	hospitals    *hospitals.Service
	verifier     *auth.Verifier
	config       *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the payload for a coverage analysis.
type AnalyzeRequest struct {
	PolicyRules models.PolicyRules `json:"policyRules"`
	BillItems   []models.BillItem  `json:"billItems"`
	PolicyName  string             `json:"policyName,omitempty"`
	Save        bool               `json:"save,omitempty"`
}

// OverrideRequest applies a manual correction to one breakdown entry.
type OverrideRequest struct {
	Analysis  models.Analysis     `json:"analysis"`
	ItemIndex int                 `json:"itemIndex"`
	Override  models.ItemOverride `json:"override"`
}

// DisputeSummaryRequest asks for ranked dispute opportunities over a
// breakdown.
type DisputeSummaryRequest struct {
	Breakdown   []models.BreakdownEntry `json:"breakdown"`
	PolicyRules models.PolicyRules      `json:"policyRules"`
}

// DisputeScriptRequest asks for communication templates for one dispute.
type DisputeScriptRequest struct {
	Dispute     models.DisputeRecord  `json:"dispute"`
	ItemDetails models.BreakdownEntry `json:"itemDetails"`
	PatientInfo models.PatientInfo    `json:"patientInfo"`
}

type googleAuthRequest struct {
	Token string `json:"token"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Logger.Sync()

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
		log.Println("Server will run in demo mode without persistence")
	}

	server := &Server{
		db:        db,
		otpStore:  otp.NewStore(otp.DefaultTTL),
		hospitals: hospitals.NewService(cfg.GoogleMapsAPIKey),
		verifier:  auth.NewVerifier(cfg.GoogleClientID),
		config:    cfg,
	}

	if db != nil {
		server.analysisRepo = database.NewAnalysisRepository(db)
		server.policyRepo = database.NewPolicyRepository(db)
	}

	// SES mailer (may fail without AWS credentials)
	mailer, err := ses.NewService(context.Background())
	if err != nil {
		log.Printf("Warning: Could not initialize SES mailer: %v", err)
	} else {
		server.mailer = mailer
	}

	// Background cleanup of expired OTPs
	server.otpStore.StartSweeper(context.Background(), time.Minute)

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Coverage engine
	mux.HandleFunc("/api/analyze", server.analyzeHandler)
	mux.HandleFunc("/api/analyze/override", server.overrideHandler)

	// Dispute forecasting
	mux.HandleFunc("/api/disputes/summary", server.disputeSummaryHandler)
	mux.HandleFunc("/api/disputes/script", server.disputeScriptHandler)

	// Pre-hospitalization guidance
	mux.HandleFunc("/api/prehosp/guidance", server.guidanceHandler)
	mux.HandleFunc("/api/procedures", server.proceduresHandler)

	// Hospital search
	mux.HandleFunc("/api/hospitals", server.hospitalsHandler)

	// Authentication
	mux.HandleFunc("/api/auth/send-otp", server.sendOTPHandler)
	mux.HandleFunc("/api/auth/verify-otp", server.verifyOTPHandler)
	mux.HandleFunc("/api/auth/google", server.googleAuthHandler)

	// Saved analyses and policy profiles
	mux.HandleFunc("/api/analyses", server.analysesHandler)
	mux.HandleFunc("/api/policies", server.policiesHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	port := getEnvOrDefault("PORT", strconv.Itoa(cfg.Port))
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("Insurex API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Health: http://localhost:%s/health", port)
	log.Println("")

	// Start server (this blocks until error)
	log.Printf("Starting HTTP server on %s...", addr)
	serverErr := http.ListenAndServe(addr, handler)
	if serverErr != nil {
		log.Fatalf("Server failed: %v", serverErr)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err == nil {
			dbStatus = "connected"
		}
	}

	response := Response{
		Success: true,
		Message: "Insurex API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	analysis := coverage.Analyze(req.PolicyRules, req.BillItems)

	// Persist when requested and the database is up; analysis still
	// succeeds without it.
	var savedID string
	if req.Save && s.analysisRepo != nil {
		saved, err := s.analysisRepo.Save(r.Context(), req.PolicyName, analysis)
		if err != nil {
			log.Printf("Warning: Could not save analysis: %v", err)
		} else {
			savedID = saved.ID
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"analysis": analysis,
			"savedId":  savedID,
		},
	})
}

func (s *Server) overrideHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	updated := coverage.OverrideItem(req.Analysis, req.ItemIndex, req.Override)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    updated,
	})
}

func (s *Server) disputeSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DisputeSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result := dispute.Summarize(req.Breakdown, req.PolicyRules)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

func (s *Server) disputeScriptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DisputeScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	script := dispute.GenerateScript(req.Dispute, req.ItemDetails, req.PatientInfo)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    script,
	})
}

func (s *Server) guidanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var inputs models.GuidanceInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	guidance := prehosp.Guidance(inputs)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    guidance,
	})
}

func (s *Server) proceduresHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    prehosp.ProcedureList(),
	})
}

func (s *Server) hospitalsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pincode := r.URL.Query().Get("pincode")
	result, err := s.hospitals.Search(r.Context(), pincode)
	if err != nil {
		if errors.Is(err, models.ErrInvalidPincode) {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid pincode. Please provide a 6-digit Indian pincode.",
			})
			return
		}
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Location not found for this pincode.",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

func (s *Server) sendOTPHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	code, err := s.otpStore.Issue(req.Email, req.Phone)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Email and phone are required",
		})
		return
	}

	if s.mailer == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Email delivery is not configured",
		})
		return
	}

	if err := s.mailer.SendOTP(r.Context(), req.Email, req.Name, code); err != nil {
		log.Printf("Failed to send OTP email: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to send OTP email. Please check your email address.",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OTP sent successfully",
	})
}

func (s *Server) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.Email == "" || req.Phone == "" || req.OTP == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Email, phone, and OTP are required",
		})
		return
	}

	attemptsLeft, err := s.otpStore.Verify(req.Email, req.Phone, req.OTP)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "OTP verified successfully",
		})
	case errors.Is(err, models.ErrOTPNotFound):
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "OTP expired or not found. Please request a new one.",
		})
	case errors.Is(err, models.ErrOTPExpired):
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "OTP has expired. Please request a new one.",
		})
	case errors.Is(err, models.ErrOTPTooManyAttempts):
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Too many failed attempts. Please request a new OTP.",
		})
	case errors.Is(err, models.ErrOTPMismatch):
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid OTP. Please try again.",
			Data: map[string]interface{}{
				"attemptsLeft": attemptsLeft,
			},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to verify OTP",
		})
	}
}

func (s *Server) googleAuthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req googleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	user, err := s.verifier.VerifyIDToken(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingToken):
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Missing token",
			})
		case errors.Is(err, models.ErrAuthNotConfigured):
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Server missing GOOGLE_CLIENT_ID",
			})
		default:
			writeJSON(w, http.StatusUnauthorized, Response{
				Success: false,
				Error:   "Authentication failed",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"user": user,
		},
	})
}

func (s *Server) analysesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.analysisRepo == nil {
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    []models.SavedAnalysis{},
		})
		return
	}

	// A specific analysis by id, or the recent list.
	if id := r.URL.Query().Get("id"); id != "" {
		saved, err := s.analysisRepo.GetByID(r.Context(), id)
		if err != nil {
			log.Printf("Error fetching analysis: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to fetch analysis",
			})
			return
		}
		if saved == nil {
			writeJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Analysis not found",
			})
			return
		}
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    saved,
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	analyses, err := s.analysisRepo.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("Error fetching analyses: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch analyses",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    analyses,
	})
}

func (s *Server) policiesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.policyRepo == nil {
			writeJSON(w, http.StatusOK, Response{
				Success: true,
				Data:    []string{},
			})
			return
		}

		if name := r.URL.Query().Get("name"); name != "" {
			rules, err := s.policyRepo.GetByName(r.Context(), name)
			if err != nil {
				log.Printf("Error fetching policy: %v", err)
				writeJSON(w, http.StatusInternalServerError, Response{
					Success: false,
					Error:   "Failed to fetch policy",
				})
				return
			}
			if rules == nil {
				writeJSON(w, http.StatusNotFound, Response{
					Success: false,
					Error:   "Policy not found",
				})
				return
			}
			writeJSON(w, http.StatusOK, Response{
				Success: true,
				Data:    rules,
			})
			return
		}

		names, err := s.policyRepo.ListNames(r.Context())
		if err != nil {
			log.Printf("Error listing policies: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to list policies",
			})
			return
		}
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    names,
		})

	case http.MethodPost:
		if s.policyRepo == nil {
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Persistence is not available",
			})
			return
		}

		var req struct {
			Name  string             `json:"name"`
			Rules models.PolicyRules `json:"rules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Policy name and rules are required",
			})
			return
		}

		if err := s.policyRepo.Save(r.Context(), req.Name, models.NormalizePolicyRules(req.Rules)); err != nil {
			log.Printf("Error saving policy: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to save policy",
			})
			return
		}
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Policy saved",
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
