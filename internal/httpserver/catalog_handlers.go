package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mangabook/catalog-api/internal/audit"
	"mangabook/catalog-api/internal/catalog"
)

func registerCatalogHandlers(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("/v1/categories/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		category := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/categories/"), "/")
		if category == "" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		view := catalog.NewCategoryView(deps.Inventory)
		if err := view.Open(r.Context(), category); err != nil {
			deps.Logger.Error("open category failed", "categoria", category, "error", err)
			writeError(w, http.StatusInternalServerError, "load products failed")
			return
		}
		if orden := strings.TrimSpace(r.URL.Query().Get("orden")); orden != "" {
			view.Sort(orden)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"categoria": view.Category(),
			"orden":     view.Criterion(),
			"label":     view.Label(),
			"state":     view.State().String(),
			"items":     view.Products(),
		})
	})
}

func registerQuoteHandlers(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("/v1/quote/dolar", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if deps.Quotes == nil {
			writeError(w, http.StatusServiceUnavailable, "quote source not configured")
			return
		}
		q, err := deps.Quotes.DollarQuote(r.Context())
		if err != nil {
			deps.Logger.Warn("dollar quote fetch failed", "error", err)
			writeError(w, http.StatusBadGateway, "dollar quote unavailable")
			return
		}
		writeJSON(w, http.StatusOK, q)
	})
}

func registerAdminProductHandlers(mux *http.ServeMux, deps Deps) {
	mux.HandleFunc("/v1/admin/products", func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireAdmin(w, r, deps)
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodGet:
			list, err := deps.Inventory.LoadOrSeed(r.Context())
			if err != nil {
				deps.Logger.Error("list products failed", "error", err)
				writeError(w, http.StatusInternalServerError, "list products failed")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": list})
		case http.MethodPost:
			var p catalog.Product
			if err := decodeJSON(w, r, &p); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			created, err := deps.Inventory.Add(r.Context(), p)
			if err != nil {
				writeProductError(w, deps, err)
				return
			}
			auditReq(deps.Audit, r, actorOf(s), "product.create", strconv.Itoa(created.ID), audit.OutcomeSuccess, "nombre="+created.Nombre)
			writeJSON(w, http.StatusCreated, created)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/v1/admin/products/", func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireAdmin(w, r, deps)
		if !ok {
			return
		}
		raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/admin/products/"), "/")
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
			return
		}

		switch r.Method {
		case http.MethodGet:
			p, err := deps.Inventory.Get(r.Context(), id)
			if err != nil {
				writeProductError(w, deps, err)
				return
			}
			writeJSON(w, http.StatusOK, p)
		case http.MethodPut:
			var p catalog.Product
			if err := decodeJSON(w, r, &p); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			p.ID = id
			updated, err := deps.Inventory.Update(r.Context(), p)
			if err != nil {
				writeProductError(w, deps, err)
				return
			}
			auditReq(deps.Audit, r, actorOf(s), "product.update", raw, audit.OutcomeSuccess, "nombre="+updated.Nombre)
			writeJSON(w, http.StatusOK, updated)
		case http.MethodDelete:
			if err := deps.Inventory.Delete(r.Context(), id); err != nil {
				writeProductError(w, deps, err)
				return
			}
			auditReq(deps.Audit, r, actorOf(s), "product.delete", raw, audit.OutcomeSuccess, "")
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func writeProductError(w http.ResponseWriter, deps Deps, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		deps.Logger.Error("product request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "product request failed")
	}
}
