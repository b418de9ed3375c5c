package http

import (
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

type productPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceMinor  int64     `json:"price_minor"`
	Quantity    int32     `json:"quantity"`
	CategoryID  string    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type categoryPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type sellerPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type orderLinePayload struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

type orderPayload struct {
	ID            string             `json:"id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	TotalMinor    int64              `json:"total_minor"`
	Lines         []orderLinePayload `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type pageMetaPayload struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func toProductPayload(p domain.Product) productPayload {
	return productPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceMinor:  p.PriceMinor,
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductPayloads(products []domain.Product) []productPayload {
	result := make([]productPayload, 0, len(products))
	for _, p := range products {
		result = append(result, toProductPayload(p))
	}
	return result
}

func toCategoryPayload(c domain.Category) categoryPayload {
	return categoryPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toSellerPayload(s domain.Seller) sellerPayload {
	return sellerPayload{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toOrderPayload(o domain.Order) orderPayload {
	lines := make([]orderLinePayload, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, orderLinePayload{
			ID:         line.ID,
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
		})
	}
	return orderPayload{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalMinor:    o.TotalMinor,
		Lines:         lines,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderPayloads(orders []domain.Order) []orderPayload {
	result := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderPayload(o))
	}
	return result
}

func toPageMetaPayload(meta domain.PageMeta) pageMetaPayload {
	return pageMetaPayload{
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalItems: meta.TotalItems,
		TotalPages: meta.TotalPages,
	}
}
