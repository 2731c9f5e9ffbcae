package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/redline/internal/db"
	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/payment"
	"github.com/jonathan/redline/internal/types"
)

// multipartMemory is how much of a multipart form is kept in memory before spilling to disk
const multipartMemory = 4 << 20

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.StatusOK)
}

// handleAnalyzeResume accepts a multipart form with job_description, language and file
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		s.errorResponse(w, r, &http.MaxBytesError{Limit: s.maxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, r, err)
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "form", Message: "Request must be multipart/form-data."})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := interview.AnalyzeInput{
		JobDescription: r.FormValue("job_description"),
		Language:       r.FormValue("language"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// the service reports the missing file
	case err != nil:
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "Could not read the uploaded file."})
		return
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			s.errorResponse(w, r, fmt.Errorf("failed to read upload: %w", err))
			return
		}
		in.Data = data
		in.Filename = header.Filename
		in.MediaType = header.Header.Get("Content-Type")
	}

	analysis, err := s.analyzer.AnalyzeResume(r.Context(), in)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleImproveQuestion accepts {"question", "job_description"}
func (s *Server) handleImproveQuestion(w http.ResponseWriter, r *http.Request) {
	var req types.ImproveQuestionRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	improvement, err := s.analyzer.ImproveQuestion(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, improvement)
}

// handleConfirmPayment accepts {"paymentKey", "orderId", "amount"}
func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req types.PaymentConfirmRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	err := s.payments.Confirm(r.Context(), payment.Confirmation{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.StatusOK)
}

// handleLead records interest in an unreleased feature. The body is optional.
func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	var req types.LeadRequest
	if !s.decodeJSON(w, r, &req, true) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.leads.SaveLead(r.Context(), db.NewLead(req.Email, req.Source, r.UserAgent())); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.StatusOK)
}

// decodeJSON reads a bounded JSON body into dst, writing the error response on failure
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF) && allowEmpty:
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.errorResponse(w, r, err)
		return false
	}
	s.errorResponse(w, r, &ErrValidation{Field: "body", Message: "Invalid JSON body."})
	return false
}
