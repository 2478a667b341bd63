package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/auth"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/query"
)

// localDateTime формат даты без часового пояса, такие даты считаются UTC
const localDateTime = "2006-01-02T15:04:05"

// handleCreateOrder оформляет заказ текущего пользователя
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, errors.InvalidArgument("invalid request body"))
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), auth.PrincipalFrom(r.Context()), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message: "The order has been completed.",
		Order:   order,
	})
}

// handleUpdateItemStatus меняет статус позиции заказа
func (h *Handler) handleUpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "orderItemId")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		h.handleError(w, r, errors.InvalidArgument("status is required"))
		return
	}

	item, err := h.orders.UpdateItemStatus(r.Context(), itemID, status)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Message:   "The status has been successfully updated.",
		OrderItem: item,
	})
}

// handleFilterItems возвращает страницу позиций по фильтру
func (h *Handler) handleFilterItems(w http.ResponseWriter, r *http.Request) {
	filter, page, err := parseFilter(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.orders.FilterItems(r.Context(), filter, page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		OrderItemList: result.Content,
		TotalPage:     result.TotalPages(),
		TotalElement:  result.TotalElements,
	})
}

// handleGetItem возвращает позицию заказа по идентификатору
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	item, err := h.orders.FindItem(r.Context(), itemID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{OrderItem: item})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, errors.InvalidArgument("invalid %s", name)
	}
	return id, nil
}

// parseFilter разбирает параметры status, startDate, endDate, itemId, page и size
func parseFilter(r *http.Request) (query.ItemFilter, domain.PageRequest, error) {
	q := r.URL.Query()
	var filter query.ItemFilter

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return filter, domain.PageRequest{}, err
		}
		filter.Status = &status
	}

	var err error
	if filter.CreatedAfter, err = parseDate(q.Get("startDate"), "startDate"); err != nil {
		return filter, domain.PageRequest{}, err
	}
	if filter.CreatedBefore, err = parseDate(q.Get("endDate"), "endDate"); err != nil {
		return filter, domain.PageRequest{}, err
	}

	if raw := q.Get("itemId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, domain.PageRequest{}, errors.InvalidArgument("invalid itemId %q", raw)
		}
		filter.ItemID = &id
	}

	page := domain.PageRequest{Page: 0, Size: domain.DefaultPageSize}
	if raw := q.Get("page"); raw != "" {
		if page.Page, err = strconv.Atoi(raw); err != nil || page.Page < 0 {
			return filter, domain.PageRequest{}, errors.InvalidArgument("invalid page %q", raw)
		}
	}
	if raw := q.Get("size"); raw != "" {
		if page.Size, err = strconv.Atoi(raw); err != nil || page.Size <= 0 {
			return filter, domain.PageRequest{}, errors.InvalidArgument("invalid size %q", raw)
		}
	}
	if err := page.Validate(); err != nil {
		return filter, domain.PageRequest{}, err
	}

	return filter, page, nil
}

// parseDate принимает ISO дату без зоны или RFC3339
func parseDate(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{localDateTime, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.InvalidArgument("invalid %s %q, expected %s", name, raw, localDateTime)
}
