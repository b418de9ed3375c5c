package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/catalog"
)

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Quantity    int32  `json:"quantity"`
	CategoryID  string `json:"category_id"`
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type sellerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type productPageResponse struct {
	Items []productPayload `json:"items"`
	Meta  pageMetaPayload  `json:"meta"`
}

type catalogHandler struct {
	products        *catalog.ProductService
	categories      *catalog.CategoryService
	sellers         *catalog.SellerService
	defaultPageSize int
	logger          *log.Entry
}

// register навешивает маршруты каталога; protected — маршруты с JWT.
func (h *catalogHandler) register(public, protected chi.Router) {
	public.Get("/product", h.listProducts)
	public.Get("/product/paginate", h.paginateProducts)
	public.Get("/product/{id}", h.getProduct)
	public.Get("/category", h.listCategories)
	public.Get("/category/{id}", h.getCategory)
	public.Get("/seller", h.listSellers)
	public.Get("/seller/{id}", h.getSeller)

	protected.Post("/product", h.createProduct)
	protected.Put("/product/{id}", h.updateProduct)
	protected.Delete("/product/{id}", h.deleteProduct)
	protected.Post("/category", h.createCategory)
	protected.Put("/category/{id}", h.updateCategory)
	protected.Delete("/category/{id}", h.deleteCategory)
	protected.Post("/seller", h.createSeller)
	protected.Put("/seller/{id}", h.updateSeller)
	protected.Delete("/seller/{id}", h.deleteSeller)
}

func (h *catalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	created, err := h.products.Create(r.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductPayload(created))
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductPayload(product))
}

func (h *catalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductPayloads(products))
}

// paginateProducts читает параметры страницы из query: page, limit, order_by,
// desc, search, category.
func (h *catalogHandler) paginateProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.Paginate(r.Context(), h.pageRequest(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, productPageResponse{
		Items: toProductPayloads(page.Items),
		Meta:  toPageMetaPayload(page.Meta),
	})
}

func (h *catalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.products.Update(r.Context(), domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductPayload(updated))
}

func (h *catalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *catalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	created, err := h.categories.Create(r.Context(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryPayload(created))
}

func (h *catalogHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryPayload(category))
}

func (h *catalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	payloads := make([]categoryPayload, 0, len(categories))
	for _, c := range categories {
		payloads = append(payloads, toCategoryPayload(c))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (h *catalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.categories.Update(r.Context(), domain.Category{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryPayload(updated))
}

func (h *catalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *catalogHandler) createSeller(w http.ResponseWriter, r *http.Request) {
	var req sellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	created, err := h.sellers.Create(r.Context(), domain.Seller{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSellerPayload(created))
}

func (h *catalogHandler) getSeller(w http.ResponseWriter, r *http.Request) {
	seller, err := h.sellers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerPayload(seller))
}

func (h *catalogHandler) listSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	payloads := make([]sellerPayload, 0, len(sellers))
	for _, s := range sellers {
		payloads = append(payloads, toSellerPayload(s))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (h *catalogHandler) updateSeller(w http.ResponseWriter, r *http.Request) {
	var req sellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	updated, err := h.sellers.Update(r.Context(), domain.Seller{
		ID:    chi.URLParam(r, "id"),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toSellerPayload(updated))
}

func (h *catalogHandler) deleteSeller(w http.ResponseWriter, r *http.Request) {
	if err := h.sellers.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageRequest читает параметры страничной выборки из query.
func (h *catalogHandler) pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = h.defaultPageSize
	}

	return domain.PageRequest{
		Page:     page,
		Limit:    limit,
		OrderBy:  q.Get("order_by"),
		Desc:     q.Get("desc") == "true",
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
}
