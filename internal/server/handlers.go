package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/chemlayout/pkg/buildinfo"
	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSDF:  "chemical/x-mdl-sdfile",
}

// layoutRequest is the body of POST /v1/layout. Layout holds a partial
// layout configuration applied over the server's configured values.
type layoutRequest struct {
	Input       string          `json:"input"`
	InputFormat string          `json:"input_format,omitempty"`
	Name        string          `json:"name,omitempty"`
	Width       float64         `json:"width,omitempty"`
	Height      float64         `json:"height,omitempty"`
	Padding     *float64        `json:"padding,omitempty"` // Overrides layout.padding; 0 fits edge to edge
	Spacing     float64         `json:"spacing,omitempty"`
	Arrange     bool            `json:"arrange,omitempty"`
	Layout      json.RawMessage `json:"layout,omitempty"`
	Format      string          `json:"format,omitempty"`
	HideLabels  bool            `json:"hide_labels,omitempty"`
	Background  string          `json:"background,omitempty"`
	Refresh     bool            `json:"refresh,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Current()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) error {
	opts, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		return err
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		return err
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Graph-Count", strconv.Itoa(res.Stats.GraphCount))
	w.Header().Set("X-Cache-Layout", hitOrMiss(res.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
	return nil
}

// decodeLayoutRequest reads the request body into pipeline options.
func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req layoutRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}

	cfg := s.cfg.LayoutConfig()
	if len(req.Layout) > 0 {
		dec := json.NewDecoder(bytes.NewReader(req.Layout))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed layout config")
		}
	}

	if req.Padding != nil {
		cfg.Padding = *req.Padding
	}

	format := req.Format
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		InputFormat: req.InputFormat,
		Input:       req.Input,
		Name:        req.Name,
		Refresh:     req.Refresh,
		Width:       req.Width,
		Height:      req.Height,
		Spacing:     req.Spacing,
		Arrange:     req.Arrange,
		Layout:      &cfg,
		Formats:     []string{format},
		HideLabels:  req.HideLabels,
		Background:  req.Background,
	}
	s.cfg.Apply(&opts)
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code, msg := errors.GetCode(err), errors.UserMessage(err)
	if code == "" {
		code, msg = errors.ErrCodeInternal, http.StatusText(status)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		code, msg = errors.ErrCodeTimeout, "request timed out"
	}

	_ = writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	}})
}

func statusFor(err error) int {
	switch {
	case errors.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
