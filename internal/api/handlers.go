package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Diyakharel1/OCR-and-NLP-services/internal/nlp"
	"github.com/Diyakharel1/OCR-and-NLP-services/internal/ocr"
)

// maxUploadSize caps bill uploads at 50MB to handle high-resolution
// phone photos
const maxUploadSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleRoot returns the service banner
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "OCR and NLP Services API",
		"version": version,
		"endpoints": []string{
			"/api/ocr/bill",
			"/api/nlp/feedback",
			"/api/nlp/insights",
			"/api/bills",
		},
	})
}

// handleHealth is the liveness endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// uploadContentType resolves the effective content type of an upload,
// falling back to the filename extension when the part header is absent
// or generic.
func uploadContentType(headerType, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(headerType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleProcessBill handles a bill image upload
func (s *Server) handleProcessBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "Empty file uploaded")
		return
	}
	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		writeError(w, http.StatusBadRequest, "File must be an image or PDF")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return
	}

	slog.Info("Processing bill image", "filename", header.Filename, "size", len(data))

	result, err := s.service.ProcessBill(header.Filename, data, contentType)
	if err != nil {
		if errors.Is(err, ocr.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, "File could not be decoded as an image")
			return
		}
		slog.Error("Error processing bill", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// feedbackRequest is the body of POST /api/nlp/feedback
type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

// handleAnalyzeFeedback analyzes one piece of feedback and records it
func (s *Server) handleAnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	analysis, err := s.service.AnalyzeFeedback(req.Feedback)
	if err != nil {
		if errors.Is(err, nlp.ErrEmptyFeedback) {
			writeError(w, http.StatusBadRequest, "Feedback text cannot be empty")
			return
		}
		slog.Error("Error analyzing feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze feedback")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// insightsResponse wraps the aggregation with the response envelope
type insightsResponse struct {
	nlp.Insights
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleInsights returns aggregated feedback analytics
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, insightsResponse{
		Insights: s.service.Insights(),
		Success:  true,
		Message:  "insights generated successfully",
	})
}

// handleListBillScans returns the scan history
func (s *Server) handleListBillScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.service.ListBillScans()
	if err != nil {
		slog.Error("Error listing bill scans", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// handleGetBillScan returns a single scan record
func (s *Server) handleGetBillScan(w http.ResponseWriter, r *http.Request) {
	scan, err := s.service.GetBillScan(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Bill scan not found")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// handleGetBillScanFile returns the stored source image
func (s *Server) handleGetBillScanFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetBillScanFile(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteBillScan removes a scan and its stored image
func (s *Server) handleDeleteBillScan(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteBillScan(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "Bill scan not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
