package ecfr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/de-tools/ecfr-atlas/pkg/adapters"
	"github.com/de-tools/ecfr-atlas/pkg/models/api"
	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type Repository interface {
	viewmodel.TitleLister
	viewmodel.AgencyDetailRepository
	viewmodel.TitleDetailRepository
}

type Handler struct {
	repo      Repository
	dashboard *viewmodel.Dashboard
	options   viewmodel.Options
}

// NewHandler serves the screens over HTTP. The dashboard is shared by all
// requests and is expected to be loading in the background.
func NewHandler(repo Repository, dashboard *viewmodel.Dashboard, options viewmodel.Options) *Handler {
	return &Handler{
		repo:      repo,
		dashboard: dashboard,
		options:   options,
	}
}

func (h *Handler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	snap := h.dashboard.Snapshot()
	writeJSON(r.Context(), w, http.StatusOK, mapScreen(snap.Status))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, mapDashboard(h.dashboard.Snapshot()))
}

// RetryDashboard restarts a failed dashboard load in the background. The load
// belongs to the dashboard's watch, not to this request.
func (h *Handler) RetryDashboard(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if h.dashboard.RetryAsync() {
		status = http.StatusAccepted
	}
	writeJSON(r.Context(), w, status, mapDashboard(h.dashboard.Snapshot()))
}

func (h *Handler) ListAgencies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseListQuery(r, viewfilter.AgencySchema)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	list := viewmodel.NewAgencyList(h.repo, nil, h.options)
	if err := list.Load(ctx); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	snap := applyQuery(q, list)

	writeJSON(ctx, w, http.StatusOK, mapPage(snap.View, adapters.MapAgencyDomainToApi))
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseListQuery(r, viewfilter.TitleSchema)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	list := viewmodel.NewTitleList(h.repo, nil, h.options)
	if err := list.Load(ctx); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	snap := applyQuery(q, list)

	writeJSON(ctx, w, http.StatusOK, mapTitleList(snap))
}

func (h *Handler) GetAgency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	detail := viewmodel.NewAgencyDetail(id, h.repo, nil, h.options)
	if err := detail.Load(ctx); err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, mapAgencyDetail(detail.Snapshot()))
}

func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	q, err := parseListQuery(r, viewfilter.SectionSchema)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	detail := viewmodel.NewTitleDetail(id, h.repo, nil, h.options)
	if err := detail.Load(ctx); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	if q.pageSize > 0 {
		detail.SetSectionPageSize(q.pageSize)
	}
	if q.search != "" {
		detail.SearchSections(q.search)
	}
	if q.sort != "" {
		detail.SortSections(q.sort)
	}
	snap := detail.SetSectionPage(q.page)

	writeJSON(ctx, w, http.StatusOK, mapTitleDetail(snap))
}

type listQuery struct {
	search   string
	agency   string
	sort     viewfilter.SortKey
	page     int
	pageSize int
}

func parseListQuery[T any](r *http.Request, schema *viewfilter.Schema[T]) (listQuery, error) {
	values := r.URL.Query()
	q := listQuery{
		search: values.Get("search"),
		sort:   viewfilter.SortKey(values.Get("sort")),
	}
	if schema.Category != nil {
		q.agency = values.Get("agency")
	}

	if q.sort != "" && !slices.Contains(viewfilter.SortKeys(schema), q.sort) {
		return q, fmt.Errorf("invalid 'sort' value %q. Expected one of %v", q.sort, viewfilter.SortKeys(schema))
	}

	var err error
	if q.page, err = intParam(values.Get("page"), 0); err != nil || q.page < 0 {
		return q, errors.New("invalid 'page' value. Expected a non-negative integer")
	}
	if q.pageSize, err = intParam(values.Get("page_size"), 0); err != nil || q.pageSize < 0 {
		return q, errors.New("invalid 'page_size' value. Expected a positive integer")
	}
	return q, nil
}

// applyQuery replays the query on a loaded list. Every filter change resets
// the page, so the page is set last.
func applyQuery[T any](q listQuery, list *viewmodel.List[T]) viewmodel.ListSnapshot[T] {
	if q.pageSize > 0 {
		list.SetPageSize(q.pageSize)
	}
	if q.search != "" {
		list.Search(q.search)
	}
	if q.agency != "" {
		list.FilterAgency(q.agency)
	}
	if q.sort != "" {
		list.Sort(q.sort)
	}
	return list.SetPage(q.page)
}

func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	writeJSON(ctx, w, status, api.Error{Error: err.Error()})
}

// writeDomainError maps repository failures to gateway style status codes.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	logger := zerolog.Ctx(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request failed")
	}
	writeError(ctx, w, status, err)
}

func StatusFor(err error) int {
	switch {
	// A cancelled request surfaces wrapped in a NetworkError.
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsNetwork(err), errors.Is(err, domain.ErrReadinessTimeout):
		return http.StatusServiceUnavailable
	case domain.IsServer(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
