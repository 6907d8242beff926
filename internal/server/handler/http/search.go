package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/restofinder/internal/middleware"
	"github.com/atinyakov/restofinder/internal/models"
)

// DefaultSearchBy is used when a request carries no search_by field. It is
// not one of the search modes, so such searches return nothing.
const DefaultSearchBy = "names"

// Recommender answers recommendation queries.
type Recommender interface {
	Recommend(ctx context.Context, query, mode string) []models.Recommendation
}

type searchPage struct {
	Flashes         []Flash
	UserName        string
	Query           string
	SearchBy        string
	Searched        bool
	Recommendations []models.Recommendation
}

// SearchHandler serves the search pages.
type SearchHandler struct {
	Search   Recommender
	Renderer *Renderer
}

// Index renders the search page. Results are computed only for a non-empty
// query parameter.
func (h *SearchHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := h.newPage(w, r)
	page.Query = q.Get("query")
	page.SearchBy = valueOr(q, "search_by", DefaultSearchBy)
	if page.Query != "" {
		page.Searched = true
		page.Recommendations = h.Search.Recommend(r.Context(), page.Query, page.SearchBy)
	}
	h.Renderer.Render(w, http.StatusOK, "index.html", page)
}

// RecommendationsPage renders the search page without results.
func (h *SearchHandler) RecommendationsPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "index.html", h.newPage(w, r))
}

// Recommendations searches with the submitted form. A form without a query
// field yields an empty result; an empty query is searched as is.
func (h *SearchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	page := h.newPage(w, r)
	page.Searched = true
	page.SearchBy = valueOr(r.PostForm, "search_by", DefaultSearchBy)
	page.Recommendations = []models.Recommendation{}
	if query, ok := r.PostForm["query"]; ok && len(query) > 0 {
		page.Query = query[0]
		page.Recommendations = h.Search.Recommend(r.Context(), page.Query, page.SearchBy)
	}
	h.Renderer.Render(w, http.StatusOK, "index.html", page)
}

func (h *SearchHandler) newPage(w http.ResponseWriter, r *http.Request) searchPage {
	page := searchPage{Flashes: popFlashes(w, r)}
	if s := middleware.SessionFromContext(r.Context()); s != nil {
		page.UserName = s.UserName
	}
	return page
}

// valueOr returns the first value of key, or def when key is absent.
// A present but empty value is returned unchanged.
func valueOr(v url.Values, key, def string) string {
	if vs, ok := v[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return def
}
