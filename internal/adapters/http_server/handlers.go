package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lite_pages/internal/adapters/observability"
	"lite_pages/internal/app"
	"lite_pages/internal/domain"
	"lite_pages/internal/render"
)

type Handlers struct {
	Pages    *app.PageService
	Registry *app.Registry
	Content  *app.Aggregator
	Renderer *render.Renderer

	// PublicHost overrides the request Host in canonical URLs.
	PublicHost string
	BookingURL string
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Handle("/static/*", http.StripPrefix("/static/", render.Static()))

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(s.corsHandler())
		r.Get("/check-slug/{slug}", h.checkSlug)
		r.Get("/property/{propertyId}", h.liteByProperty)
		r.Get("/account/{accountId}", h.litesByAccount)
		r.Post("/lites", h.createLite)
		r.Put("/lites/{id}", h.updateLite)
		r.Delete("/lites/{id}", h.deleteLite)
		r.Get("/availability/{roomId}", h.availability)
	})

	s.mux.Get("/{slug}", h.page)
	s.mux.Get("/{slug}/card", h.card)
	s.mux.Get("/{slug}/qr", h.qr)
	s.mux.Get("/{slug}/print", h.print)
}

// ---- responses ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// writeAPIError maps a service error to the JSON contract; store details never reach the client.
func writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSlugTaken):
		writeFail(w, http.StatusOK, "Slug taken")
	case errors.Is(err, domain.ErrInvalidInput):
		writeFail(w, http.StatusBadRequest, invalidMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, "Not found")
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("api request failed")
		writeFail(w, http.StatusInternalServerError, "Internal error")
	}
}

func invalidMessage(err error) string {
	// the leaf message is ours; wrapping prefixes are not
	return errors.UnwrapAll(err).Error()
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write HTML response failed")
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.Mark(errors.Newf("%s must be a UUID", name), domain.ErrInvalidInput)
	}
	return id, nil
}

// ---- pages ----

func (h *Handlers) options(r *http.Request, slug string) render.Options {
	host := h.PublicHost
	if host == "" {
		host = r.Host
	}
	return render.Options{
		CanonicalURL: "https://" + host + "/" + slug,
		QRURL:        "/" + slug + "/qr",
		CardURL:      "/" + slug + "/card",
		BookingURL:   h.BookingURL,
	}
}

// pageFailure renders the HTML error page matching err.
func (h *Handlers) pageFailure(w http.ResponseWriter, r *http.Request, kind string, err error) {
	observability.ObservePage(kind, err)
	if errors.Is(err, domain.ErrNotFound) {
		writeHTML(w, http.StatusNotFound, h.Renderer.NotFound())
		return
	}
	log.Error().Err(err).Str("slug", chi.URLParam(r, "slug")).Str("kind", kind).Msg("page failed")
	writeHTML(w, http.StatusInternalServerError, h.Renderer.ServerError())
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request) {
	slug := domain.NormalizeSlug(chi.URLParam(r, "slug"))
	p, err := h.Pages.Page(r.Context(), slug)
	if err != nil {
		h.pageFailure(w, r, "page", err)
		return
	}
	body, err := h.Renderer.Page(p, h.options(r, p.Entry.Slug))
	if err != nil {
		h.pageFailure(w, r, "page", err)
		return
	}
	observability.ObservePage("page", nil)
	writeHTML(w, http.StatusOK, body)
}

func (h *Handlers) card(w http.ResponseWriter, r *http.Request) {
	slug := domain.NormalizeSlug(chi.URLParam(r, "slug"))
	p, err := h.Pages.Card(r.Context(), slug, r.URL.Query().Get("promo"))
	if err != nil {
		h.pageFailure(w, r, "card", err)
		return
	}
	body, err := h.Renderer.Card(p, h.options(r, p.Entry.Slug))
	if err != nil {
		h.pageFailure(w, r, "card", err)
		return
	}
	observability.ObservePage("card", nil)
	writeHTML(w, http.StatusOK, body)
}

func (h *Handlers) print(w http.ResponseWriter, r *http.Request) {
	slug := domain.NormalizeSlug(chi.URLParam(r, "slug"))
	p, err := h.Pages.Print(r.Context(), slug)
	if err == nil {
		var body []byte
		if body, err = h.Renderer.Print(p, h.options(r, p.Entry.Slug)); err == nil {
			observability.ObservePage("print", nil)
			writeHTML(w, http.StatusOK, body)
			return
		}
	}
	observability.ObservePage("print", err)
	if errors.Is(err, domain.ErrNotFound) {
		writeText(w, http.StatusNotFound, "Not found")
		return
	}
	log.Error().Err(err).Str("slug", slug).Msg("print card failed")
	writeText(w, http.StatusInternalServerError, "Internal error")
}

func (h *Handlers) qr(w http.ResponseWriter, r *http.Request) {
	slug := domain.NormalizeSlug(chi.URLParam(r, "slug"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := render.QR(h.options(r, slug).CanonicalURL, size)
	observability.ObservePage("qr", err)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("qr failed")
		writeText(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if h.PublicHost != "" {
		w.Header().Set("Cache-Control", "public, max-age=86400")
	} else {
		// the payload carries the caller's Host header; keep it out of shared caches
		w.Header().Set("Cache-Control", "private, max-age=86400")
		w.Header().Set("Vary", "Host")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ---- API ----

func (h *Handlers) checkSlug(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Registry.CheckAvailable(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": ok})
}

func (h *Handlers) liteByProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "propertyId")
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	lite, err := h.Registry.ByProperty(r.Context(), id)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lite": lite})
}

func (h *Handlers) litesByAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "accountId")
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	lites, err := h.Registry.ListByAccount(r.Context(), id)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	if lites == nil {
		lites = []domain.LiteEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lites": lites})
}

func (h *Handlers) createLite(w http.ResponseWriter, r *http.Request) {
	var req createLiteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIError(w, r, err)
		return
	}
	lite, err := h.Registry.Create(r.Context(), req.toDomain())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lite": lite})
}

func (h *Handlers) updateLite(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	var req updateLiteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeAPIError(w, r, err)
		return
	}
	lite, err := h.Registry.Update(r.Context(), id, req.toDomain())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lite": lite})
}

func (h *Handlers) deleteLite(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	if err := h.Registry.Remove(r.Context(), id); err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type availabilityRow struct {
	domain.Availability
	DisplayPrice *float64 `json:"display_price"`
}

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "roomId")
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	q := r.URL.Query()
	rows, err := h.Content.Availability(r.Context(), id, strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	out := make([]availabilityRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, availabilityRow{Availability: a, DisplayPrice: a.DisplayPrice()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "availability": out})
}
