package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/cache"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/order"
)

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type placeOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        string             `json:"status"`
	Lines         []orderLineRequest `json:"lines"`
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type orderPageResponse struct {
	Items []orderPayload  `json:"items"`
	Meta  pageMetaPayload `json:"meta"`
}

type orderHandler struct {
	placer          *order.Placer
	orders          *order.Service
	cache           *cache.OrderCache
	defaultPageSize int
	logger          *log.Entry
}

func (h *orderHandler) register(public, protected chi.Router) {
	public.Get("/order", h.list)
	public.Get("/order/paginate", h.paginate)
	public.Get("/order/{id}", h.get)

	protected.Post("/order", h.place)
	protected.Patch("/order/{id}", h.updateStatus)
	protected.Patch("/order/{id}/payment", h.updatePayment)
	protected.Delete("/order/{id}", h.remove)
}

// place выполняет транзакцию размещения заказа.
func (h *orderHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	logger := h.logger
	if claims, ok := claimsFromContext(r.Context()); ok {
		logger = logger.WithField("user_id", claims.UserID)
	}

	lines := make([]domain.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.LineRequest{ProductID: line.ProductID, Qty: line.Qty})
	}

	placed, err := h.placer.Place(r.Context(), order.PlaceRequest{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        domain.OrderStatus(req.Status),
		Lines:         lines,
	})
	if err != nil {
		writeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderPayload(placed))
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if cached, ok := h.cache.Get(r.Context(), id); ok {
		writeJSON(w, http.StatusOK, toOrderPayload(cached))
		return
	}

	stored, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.cache.Set(r.Context(), stored)

	writeJSON(w, http.StatusOK, toOrderPayload(stored))
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayloads(orders))
}

func (h *orderHandler) paginate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = h.defaultPageSize
	}

	result, err := h.orders.Paginate(r.Context(), domain.PageRequest{
		Page:  page,
		Limit: limit,
		Desc:  q.Get("desc") == "true",
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, orderPageResponse{
		Items: toOrderPayloads(result.Items),
		Meta:  toPageMetaPayload(result.Meta),
	})
}

func (h *orderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	writeJSON(w, http.StatusOK, toOrderPayload(updated))
}

func (h *orderHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.orders.UpdatePaymentStatus(r.Context(), id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	writeJSON(w, http.StatusOK, toOrderPayload(updated))
}

func (h *orderHandler) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.orders.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}
