package http

import (
	"net/http"

	"StorefrontPlatform/pkg/errors"
)

// handleGetProduct возвращает товар по идентификатору
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	product, err := h.catalog.ProductByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Product: product})
}

// handleAllProducts возвращает весь каталог
func (h *Handler) handleAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.AllProducts(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{ProductList: products})
}

// handleProductsByCategory возвращает товары категории
func (h *Handler) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	products, err := h.catalog.ProductsByCategory(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{ProductList: products})
}

// handleSearchProducts ищет товары по параметру searchValue
func (h *Handler) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("searchValue")
	if term == "" {
		h.handleError(w, r, errors.InvalidArgument("searchValue is required"))
		return
	}

	products, err := h.catalog.SearchProducts(r.Context(), term)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{ProductList: products})
}
