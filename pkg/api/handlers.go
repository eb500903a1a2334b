package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
	"github.com/Gianuzzi/DeepSpyce/pkg/storage"
)

// Server holds the API server state
type Server struct {
	archive RecordStore
	config  ServerConfig
	metrics *Metrics
	logger  zerolog.Logger
}

// NewServer creates a new API server
func NewServer(archive RecordStore, config ServerConfig, metrics *Metrics, logger zerolog.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleDecode decodes the header of an uploaded file. The swap query
// parameter overrides the configured byte order directive.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts, err := s.requestOptions(r)
	if err != nil {
		s.metrics.RecordCodecOperation("decode", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("decode", false, time.Since(start))
		return
	}

	rec, diags, err := filterbank.ReadFrom(bytes.NewReader(body), opts, filterbank.HeaderOnly)
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	s.metrics.RecordDiagnostics(diags)
	if err != nil {
		sendError(w, "Failed to decode header: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sendSuccess(w, HeaderResponse{Header: rec.Header, Diagnostics: nonNil(diags)})
}

// handleValidate decodes the header of an uploaded file and checks it
// against the filterbank type map.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts, err := s.requestOptions(r)
	if err != nil {
		s.metrics.RecordCodecOperation("validate", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("validate", false, time.Since(start))
		return
	}

	rec, diags, err := filterbank.ReadFrom(bytes.NewReader(body), opts, filterbank.HeaderOnly)
	if err != nil {
		s.metrics.RecordCodecOperation("validate", false, time.Since(start))
		s.metrics.RecordDiagnostics(diags)
		sendError(w, "Failed to decode header: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	valid, vdiags := filterbank.Validate(rec.Header, opts.Types)
	diags = append(diags, vdiags...)
	s.metrics.RecordCodecOperation("validate", true, time.Since(start))
	s.metrics.RecordDiagnostics(diags)

	sendSuccess(w, ValidateResponse{OK: valid, Diagnostics: nonNil(diags)})
}

func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	opts, err := s.requestOptions(r)
	if err != nil {
		s.metrics.RecordCodecOperation("put", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("put", false, time.Since(start))
		return
	}

	id, diags, err := s.archive.PutBytes(body, opts)
	s.metrics.RecordCodecOperation("put", err == nil, time.Since(start))
	s.metrics.RecordDiagnostics(diags)
	if err != nil {
		s.logger.Warn().Err(err).Msg("archive put failed")
		sendError(w, "Failed to store record: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.logger.Debug().Str("id", id.String()).Int("bytes", len(body)).Msg("record stored")
	s.refreshArchiveStats()
	sendSuccessStatus(w, RecordResponse{ID: id.String(), Diagnostics: diags}, http.StatusCreated)
}

// handleListRecords lists every record, or those matching key and value.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	key, value := q.Get("key"), q.Get("value")

	var (
		ids []ksuid.KSUID
		err error
	)
	switch {
	case key == "" && !q.Has("value"):
		ids, err = s.archive.List()
	case key == "":
		sendError(w, "value given without key", http.StatusBadRequest)
		return
	default:
		ids, err = s.archive.Find(key, value)
	}
	s.metrics.RecordCodecOperation("list", err == nil, time.Since(start))
	if err != nil {
		sendError(w, "Failed to list records", http.StatusInternalServerError)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sendSuccess(w, RecordListResponse{IDs: out})
}

// handleGetRecord returns the stored file bytes.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	b, err := s.archive.Bytes(id)
	s.metrics.RecordCodecOperation("get", err == nil, time.Since(start))
	if err != nil {
		s.sendArchiveError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleGetRecordHeader(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h, diags, err := s.archive.Header(id, opts)
	s.metrics.RecordCodecOperation("header", err == nil, time.Since(start))
	s.metrics.RecordDiagnostics(diags)
	if err != nil {
		s.sendArchiveError(w, err)
		return
	}

	sendSuccess(w, HeaderResponse{Header: h, Diagnostics: nonNil(diags)})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	err := s.archive.Delete(id)
	s.metrics.RecordCodecOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendArchiveError(w, err)
		return
	}

	s.refreshArchiveStats()
	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

// requestOptions applies the swap query parameter to the configured options.
func (s *Server) requestOptions(r *http.Request) (filterbank.Options, error) {
	opts := s.config.Options
	raw := r.URL.Query().Get("swap")
	if raw == "" {
		return opts, nil
	}
	swap, err := strconv.ParseBool(raw)
	if err != nil {
		return opts, errors.New("swap must be a boolean")
	}
	opts.Directive = codec.SwapDirective(swap)
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	if len(body) == 0 {
		sendError(w, "Request body is empty", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func (s *Server) sendArchiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "Record not found", http.StatusNotFound)
		return
	}
	s.logger.Error().Err(err).Msg("archive operation failed")
	sendError(w, "Archive operation failed", http.StatusInternalServerError)
}

func (s *Server) refreshArchiveStats() {
	ids, err := s.archive.List()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to count archive records")
		return
	}
	s.metrics.UpdateArchiveStats(len(ids))
}

func recordID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// nonNil keeps empty diagnostic lists rendering as [] rather than null.
func nonNil(diags []header.Diagnostic) []header.Diagnostic {
	if diags == nil {
		return []header.Diagnostic{}
	}
	return diags
}
