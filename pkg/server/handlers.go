package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"strings"

	"github.com/matzehuels/mindlayout/pkg/buildinfo"
	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// HeaderTenantID scopes cache entries to one tenant.
const HeaderTenantID = "X-Tenant-ID"

const maxTenantIDLength = 64

// =============================================================================
// Request / Response Types
// =============================================================================

// LayoutRequest is the body of POST /api/v1/layout and /render.
type LayoutRequest struct {
	graph.Document
	Options *pipeline.Options `json:"options,omitempty"`
}

// IncrementalRequest is the body of POST /api/v1/layout/incremental.
type IncrementalRequest struct {
	graph.Document
	Movable []string          `json:"movable,omitempty"`
	Options *pipeline.Options `json:"options,omitempty"`
}

// LayoutResponse is returned by POST /api/v1/layout.
type LayoutResponse struct {
	graph.Layout
	Cached bool `json:"cached"`
}

// IncrementalResponse is returned by POST /api/v1/layout/incremental.
// Changed is false when every node kept its position.
type IncrementalResponse struct {
	graph.Layout
	Changed bool `json:"changed"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Short()})
}

// layout handles POST /api/v1/layout.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	runner, err := s.runnerFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hit, err := runner.ComputeLayout(r.Context(), req.Document, s.options(req.Options))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Layout: l, Cached: hit})
}

// incremental handles POST /api/v1/layout/incremental.
func (s *Server) incremental(w http.ResponseWriter, r *http.Request) {
	var req IncrementalRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, id := range req.Movable {
		if err := errors.ValidateNodeID(id); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "movable"))
			return
		}
	}

	runner, err := s.runnerFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, err := runner.ResolveIncremental(r.Context(), req.Document, req.Movable, s.options(req.Options))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, IncrementalResponse{
		Layout:  l,
		Changed: l.Stats != nil && l.Stats.Moved > 0,
	})
}

// render handles POST /api/v1/render?format=svg. The document is rendered
// with the positions it carries.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := pipeline.ValidateDocument(req.Document); err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := s.options(req.Options)
	opts.Formats = []string{format}

	runner, err := s.runnerFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := runner.Render(r.Context(), req.Document, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Helpers
// =============================================================================

// options merges request options over the server defaults. Only fields the
// request sets replace a default: non-empty strings and slices, positive
// numbers, non-nil pointers and true flags. The server's logger always wins.
func (s *Server) options(req *pipeline.Options) pipeline.Options {
	opts := s.defaults
	opts.Formats = slices.Clone(s.defaults.Formats)
	opts.Logger = s.logger
	if req == nil {
		return opts
	}

	if req.Strategy != "" {
		opts.Strategy = req.Strategy
	}
	setPositive(&opts.BaseRadius, req.BaseRadius)
	setPositive(&opts.DepthIncrement, req.DepthIncrement)
	setPositive(&opts.ChildSpreadDeg, req.ChildSpreadDeg)
	setPositive(&opts.MinSectorDeg, req.MinSectorDeg)
	setPositive(&opts.MaxPasses, req.MaxPasses)
	setPositive(&opts.Seed, req.Seed)
	setPositive(&opts.Scale, req.Scale)
	if req.SectorGapDeg != nil {
		opts.SectorGapDeg = req.SectorGapDeg
	}
	if req.NodePadding != nil {
		opts.NodePadding = req.NodePadding
	}
	if len(req.Formats) > 0 {
		opts.Formats = slices.Clone(req.Formats)
	}
	opts.Refresh = opts.Refresh || req.Refresh
	opts.Detailed = opts.Detailed || req.Detailed
	opts.HideEdges = opts.HideEdges || req.HideEdges
	return opts
}

func setPositive[T int | uint64 | float64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// runnerFor returns a runner whose cache keys are scoped to the request's
// tenant, or the shared runner when no tenant is given.
func (s *Server) runnerFor(r *http.Request) (*pipeline.Runner, error) {
	tenant := r.Header.Get(HeaderTenantID)
	if tenant == "" {
		return s.runner, nil
	}
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}
	scoped := *s.runner
	scoped.Keyer = cache.NewTenantKeyer(s.runner.Keyer, tenant)
	return &scoped, nil
}

func validateTenant(id string) error {
	if len(id) > maxTenantIDLength {
		return errors.New(errors.ErrCodeInvalidInput, "tenant id too long (max %d characters)", maxTenantIDLength)
	}
	for _, c := range id {
		ok := c == '-' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "tenant id %q may only contain letters, digits, '-' and '_'", id)
		}
	}
	return nil
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", ct)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}
