package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/creditwatch/backend/internal/dashboard"
	"github.com/wonny/creditwatch/backend/internal/filtering"
	"github.com/wonny/creditwatch/backend/internal/presets"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// maxSearchBody bounds the criteria payload of POST /api/issuers/search
const maxSearchBody = 1 << 20

// IssuerHandler handles the dashboard issuer endpoints
// ⭐ SSOT: 발행사 조회 API 핸들러는 이 구조체에서만
type IssuerHandler struct {
	service *dashboard.Service
	presets *presets.Set
	logger  *logger.Logger
}

// NewIssuerHandler creates a new issuer handler (presets may be nil)
func NewIssuerHandler(service *dashboard.Service, presetSet *presets.Set, log *logger.Logger) *IssuerHandler {
	return &IssuerHandler{
		service: service,
		presets: presetSet,
		logger:  log.WithComponent("api"),
	}
}

// List returns issuers matching query-string criteria or a saved preset
// GET /api/issuers?region=...&rating=...&rating_from=YYYY-MM-DD
// GET /api/issuers?preset=name
func (h *IssuerHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if name := query.Get("preset"); name != "" {
		if len(query) > 1 {
			respondError(w, http.StatusBadRequest, ReasonBadRequest, "preset cannot be combined with other filters")
			return
		}
		criteria, ok := h.presets.Get(name)
		if !ok {
			respondError(w, http.StatusNotFound, ReasonNotFound, "unknown preset: "+name)
			return
		}
		h.query(w, r, criteria)
		return
	}

	criteria, err := filtering.CriteriaFromQuery(query)
	if err != nil {
		respondError(w, http.StatusBadRequest, ReasonBadRequest, err.Error())
		return
	}

	h.query(w, r, criteria)
}

// ListPresets returns the saved filter presets
// GET /api/presets
func (h *IssuerHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": h.presets.List(),
		"hash":    h.presets.Hash(),
	})
}

// Search returns issuers matching a JSON criteria body (empty body matches everything)
// POST /api/issuers/search
func (h *IssuerHandler) Search(w http.ResponseWriter, r *http.Request) {
	var criteria filtering.Criteria

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxSearchBody))
	decoder.DisallowUnknownFields() // 오타 키가 조건 없음으로 해석되지 않도록
	if err := decoder.Decode(&criteria); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, ReasonBadRequest, "Invalid criteria: "+err.Error())
		return
	}

	h.query(w, r, &criteria)
}

func (h *IssuerHandler) query(w http.ResponseWriter, r *http.Request, criteria *filtering.Criteria) {
	result, err := h.service.Query(r.Context(), criteria)
	if err != nil {
		h.logger.WithError(err).Error("Issuer query failed")
		respondFetchError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Changes returns issuers with a change of the given kind today
// GET /api/issuers/changes/{kind}
func (h *IssuerHandler) Changes(w http.ResponseWriter, r *http.Request) {
	kind, err := filtering.ParseChangeKind(mux.Vars(r)["kind"])
	if err != nil {
		respondError(w, http.StatusBadRequest, ReasonBadRequest, err.Error())
		return
	}

	result, err := h.service.ChangesToday(r.Context(), kind)
	if err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Changes query failed")
		respondFetchError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Get returns a single issuer
// GET /api/issuers/{isin}
func (h *IssuerHandler) Get(w http.ResponseWriter, r *http.Request) {
	isin := strings.TrimSpace(mux.Vars(r)["isin"])
	if isin == "" {
		respondError(w, http.StatusBadRequest, ReasonBadRequest, "isin is required")
		return
	}

	view, err := h.service.Issuer(r.Context(), isin)
	if err != nil {
		h.logger.WithError(err).WithField("isin", isin).Warn("Issuer lookup failed")
		respondFetchError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}
