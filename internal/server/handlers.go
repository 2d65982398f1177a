package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gvlayout/pkg/buildinfo"
	errs "github.com/matzehuels/gvlayout/pkg/errors"
	"github.com/matzehuels/gvlayout/pkg/graph"
	"github.com/matzehuels/gvlayout/pkg/layout"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph  graph.Document `json:"graph"`
	Config *RequestConfig `json:"config,omitempty"`
}

// RequestConfig holds the graph attributes a request may set.
type RequestConfig struct {
	Algorithm   string `json:"algorithm,omitempty"`
	RankDir     string `json:"rankdir,omitempty"`
	Overlap     string `json:"overlap,omitempty"`
	Concentrate *bool  `json:"concentrate,omitempty"`
}

// NodePosition is one positioned node in a LayoutResponse.
type NodePosition struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	PassID      string         `json:"pass_id"`
	Updated     int            `json:"updated"`
	Skipped     []layout.Skip  `json:"skipped"`
	Nodes       []NodePosition `json:"nodes"`
	Diagnostics string         `json:"diagnostics,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Cached      bool           `json:"cached"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string    `json:"error"`
	Code        errs.Code `json:"code,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Diagnostics string    `json:"diagnostics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, errs.Wrap(errs.ErrCodeInvalidInput, err, "request body too large"), "")
			return
		}
		s.writeError(w, r, http.StatusBadRequest, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"), "")
		return
	}

	g, err := req.Graph.ToGraph()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errs.Wrap(errs.ErrCodeInvalidGraph, err, "invalid graph"), "")
		return
	}

	cfg := s.configFor(req.Config)
	res, err := s.cfg.Runner.Layout(r.Context(), g, cfg)
	if err != nil {
		diag := ""
		if res != nil {
			diag = res.Diagnostics
		}
		s.writeError(w, r, statusFor(err), err, diag)
		return
	}

	resp := LayoutResponse{
		PassID:      res.PassID,
		Updated:     res.Updated,
		Skipped:     []layout.Skip{},
		Diagnostics: res.Diagnostics,
		Warnings:    res.Warnings,
		Cached:      res.Cached,
	}
	if res.Report != nil && res.Report.Skipped != nil {
		resp.Skipped = res.Report.Skipped
	}
	for _, n := range g.Nodes() {
		resp.Nodes = append(resp.Nodes, NodePosition{ID: n.ID, X: n.X, Y: n.Y})
	}
	if resp.Nodes == nil {
		resp.Nodes = []NodePosition{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) configFor(rc *RequestConfig) layout.Config {
	cfg := s.cfg.Layout
	if rc == nil {
		return cfg
	}
	if rc.Algorithm != "" {
		cfg = cfg.WithAlgorithm(rc.Algorithm)
	}
	if rc.RankDir != "" {
		cfg = cfg.WithRankDir(rc.RankDir)
	}
	if rc.Overlap != "" {
		cfg = cfg.WithOverlap(rc.Overlap)
	}
	if rc.Concentrate != nil {
		cfg = cfg.WithConcentrate(*rc.Concentrate)
	}
	return cfg
}

// statusFor maps coded errors to HTTP status codes.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeLaunch, errs.ErrCodeIO, errs.ErrCodeEngineExit:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error, diagnostics string) {
	reqID := middleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("layout request failed", "id", reqID, "status", status, "err", err)
	} else {
		s.logger.Debug("rejected request", "id", reqID, "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:       errs.UserMessage(err),
		Code:        errs.GetCode(err),
		RequestID:   reqID,
		Diagnostics: diagnostics,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
