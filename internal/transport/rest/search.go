package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
	"github.com/Taum/marketbot-sub000/internal/service/search"
	"github.com/Taum/marketbot-sub000/pkg/ctxutil"
)

// searchService defines the read operations used by SearchHandler.
type searchService interface {
	Search(ctx context.Context, in search.SearchInput) (*search.SearchResult, error)
	ListFacets(ctx context.Context, in search.FacetsInput) ([]domain.FacetUsage, error)
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.DisplayCard, error)
}

// reindexer re-segments a single card.
type reindexer interface {
	Reindex(ctx context.Context, cardID uuid.UUID) (domain.ReindexResult, error)
}

// SearchHandler serves card search, facet listing and card endpoints.
type SearchHandler struct {
	svc     searchService
	indexer reindexer
	log     *slog.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc searchService, indexer reindexer, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, indexer: indexer, log: logger.With("handler", "search")}
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Search(r.Context(), req.toInput())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(res))
}

// Facets handles GET /api/facets?kind=trigger&search=&include_support=&limit=&offset=.
func (h *SearchHandler) Facets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := search.FacetsInput{Kind: domain.FacetKind(q.Get("kind"))}

	if v := q.Get("search"); v != "" {
		in.Filter.Search = &v
	}

	var fields domain.FieldErrors
	if v := q.Get("include_support"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fields.Add("include_support", "must be a boolean")
		}
		in.Filter.IncludeSupport = b
	}
	in.Filter.Limit = queryInt(q.Get("limit"), "limit", &fields)
	in.Filter.Offset = queryInt(q.Get("offset"), "offset", &fields)
	if err := fields.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	facets, err := h.svc.ListFacets(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFacetResponses(facets))
}

// GetCard handles GET /api/cards/{id}.
func (h *SearchHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	card, err := h.svc.GetCard(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// Reindex handles POST /api/cards/{id}/reindex. The route is expected to be
// wrapped by admin authentication.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	operator, _ := ctxutil.OperatorFromCtx(r.Context())
	res, err := h.indexer.Reindex(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "card reindexed",
		slog.String("card_id", id.String()),
		slog.String("operator", operator),
		slog.Int("lines_unparsed", res.LinesUnparsed),
	)
	writeJSON(w, http.StatusOK, toReindexResponse(res))
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: []fieldResponse{{Field: "id", Message: "must be a UUID"}},
		})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(v, field string, fields *domain.FieldErrors) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fields.Add(field, "must be an integer")
		return 0
	}
	return n
}
