package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// SellerService — CRUD продавцов площадки.
type SellerService struct {
	sellers domain.SellerRepository
	logger  *log.Entry
}

// NewSellerService создаёт сервис продавцов.
func NewSellerService(sellers domain.SellerRepository, logger *log.Entry) *SellerService {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-sellers")
	}
	return &SellerService{sellers: sellers, logger: logger}
}

// Create валидирует и сохраняет продавца.
func (s *SellerService) Create(ctx context.Context, seller domain.Seller) (domain.Seller, error) {
	if errs := seller.Validate(); len(errs) > 0 {
		return domain.Seller{}, errs[0]
	}
	return s.sellers.Create(ctx, seller)
}

// Get возвращает продавца по идентификатору.
func (s *SellerService) Get(ctx context.Context, id string) (domain.Seller, error) {
	return s.sellers.Get(ctx, id)
}

// List возвращает всех живых продавцов.
func (s *SellerService) List(ctx context.Context) ([]domain.Seller, error) {
	return s.sellers.List(ctx)
}

// Update меняет данные продавца.
func (s *SellerService) Update(ctx context.Context, seller domain.Seller) (domain.Seller, error) {
	if seller.ID == "" {
		return domain.Seller{}, domain.ErrSellerNotFound
	}
	if errs := seller.Validate(); len(errs) > 0 {
		return domain.Seller{}, errs[0]
	}
	return s.sellers.Update(ctx, seller)
}

// Remove помечает продавца удалённым.
func (s *SellerService) Remove(ctx context.Context, id string) error {
	return s.sellers.SoftDelete(ctx, id)
}
