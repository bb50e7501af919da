package api

import (
	"log/slog"
	"net/http"
)

// version is reported by the root banner endpoint
const version = "1.0.0"

// Server handles HTTP requests for both pipelines
type Server struct {
	service *Service
	mux     *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(service *Service) *Server {
	return NewServerWithMux(service, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, mux *http.ServeMux) *Server {
	s := &Server{
		service: service,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers and answers preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux.
// Routes are registered from most specific to least specific.
func (s *Server) registerRoutes() {
	// Pipelines
	s.mux.HandleFunc("POST /api/ocr/bill", s.handleProcessBill)
	s.mux.HandleFunc("POST /api/nlp/feedback", s.handleAnalyzeFeedback)
	s.mux.HandleFunc("GET /api/nlp/insights", s.handleInsights)

	// Bill scan history (most specific paths first)
	s.mux.HandleFunc("GET /api/bills/{id}/file", s.handleGetBillScanFile)
	s.mux.HandleFunc("GET /api/bills/{id}", s.handleGetBillScan)
	s.mux.HandleFunc("DELETE /api/bills/{id}", s.handleDeleteBillScan)
	s.mux.HandleFunc("GET /api/bills", s.handleListBillScans)

	// Service metadata
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
