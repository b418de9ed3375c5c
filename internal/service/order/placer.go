package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
)

// PlaceRequest — запрос на размещение заказа: покупатель и список позиций
// в том порядке, в котором их прислал клиент.
type PlaceRequest struct {
	CustomerName  string
	CustomerEmail string
	// Status — начальный статус заказа; пустое значение означает pending.
	Status domain.OrderStatus
	Lines  []domain.LineRequest
}

// processedLine — результат обработки одной позиции: товар, количество и
// цена, зафиксированная в момент резервирования.
type processedLine struct {
	ProductID  string
	Qty        int32
	PriceMinor int64
}

// Placer координирует транзакцию размещения заказа: валидация позиций,
// резервирование остатков под блокировкой и атомарная запись заказа.
type Placer struct {
	uow     domain.PlacementUnitOfWork
	logger  *log.Entry
	metrics *metrics.PlacementMetrics
}

// NewPlacer создаёт рабочий экземпляр координатора размещения.
func NewPlacer(uow domain.PlacementUnitOfWork, logger *log.Entry) *Placer {
	if logger == nil {
		logger = log.New().WithField("component", "order-placer")
	}
	return &Placer{
		uow:     uow,
		logger:  logger,
		metrics: metrics.NewPlacementMetrics(),
	}
}

// NewPlacerWithoutMetrics создаёт координатор без метрик (для тестов).
func NewPlacerWithoutMetrics(uow domain.PlacementUnitOfWork, logger *log.Entry) *Placer {
	if logger == nil {
		logger = log.New().WithField("component", "order-placer")
	}
	return &Placer{
		uow:    uow,
		logger: logger,
	}
}

// Place размещает заказ в одной транзакции. Либо все позиции зарезервированы
// и заказ записан, либо ни одно списание не остаётся применённым. Первая же
// ошибка позиции прерывает обработку, оставшиеся позиции не рассматриваются.
func (p *Placer) Place(ctx context.Context, req PlaceRequest) (domain.Order, error) {
	start := time.Now()
	p.metrics.RecordStarted()
	defer func() {
		p.metrics.RecordDuration(time.Since(start))
	}()

	if err := validatePlaceRequest(req); err != nil {
		p.metrics.RecordRejected("invalid")
		return domain.Order{}, err
	}

	status := req.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	processed := make([]processedLine, len(req.Lines))

	var processedOrder domain.Order
	err := p.uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		// Блокировки берутся в порядке возрастания идентификатора товара,
		// а не в порядке подачи: два встречных многострочных заказа иначе
		// могут взять одни и те же строки в противоположном порядке.
		for _, idx := range lockOrder(req.Lines) {
			line := req.Lines[idx]

			lockStart := time.Now()
			product, err := tx.AcquireForUpdate(ctx, line.ProductID)
			p.metrics.RecordLockWait(time.Since(lockStart))
			if err != nil {
				return err
			}

			if product.Quantity < line.Qty {
				return fmt.Errorf("product %q: %w", product.Name, domain.ErrOutOfStock)
			}
			if err := tx.Decrement(ctx, product.ID, line.Qty); err != nil {
				return err
			}

			// Результат кладётся в позицию исходного индекса: ответ клиенту
			// сохраняет порядок подачи независимо от порядка блокировок.
			processed[idx] = processedLine{
				ProductID:  product.ID,
				Qty:        line.Qty,
				PriceMinor: product.PriceMinor,
			}
		}

		order := buildOrder(req, status, processed, time.Now().UTC())

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := p.enqueueCreatedEvent(ctx, tx, order); err != nil {
			return err
		}

		processedOrder = order
		return nil
	})
	if err != nil {
		reason := rejectionReason(err)
		p.metrics.RecordRejected(reason)
		p.logger.WithError(err).WithFields(log.Fields{
			"customer_email": req.CustomerEmail,
			"lines":          len(req.Lines),
			"reason":         reason,
		}).Warn("order placement rolled back")
		return domain.Order{}, err
	}

	p.metrics.RecordCommitted()
	p.logger.WithFields(log.Fields{
		"order_id":    processedOrder.ID,
		"total_minor": processedOrder.TotalMinor,
		"lines":       len(processedOrder.Lines),
	}).Info("order placed")

	return processedOrder, nil
}

// enqueueCreatedEvent кладёт событие о созданном заказе в outbox той же транзакцией.
func (p *Placer) enqueueCreatedEvent(ctx context.Context, tx domain.PlacementTx, order domain.Order) error {
	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderCreated,
		order.ID,
		order.CustomerEmail,
		string(order.Status),
		string(order.PaymentStatus),
		order.TotalMinor,
	)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order created event: %w", err)
	}

	return tx.EnqueueEvent(ctx, domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	})
}

// validatePlaceRequest отклоняет заведомо некорректный запрос до открытия транзакции.
func validatePlaceRequest(req PlaceRequest) error {
	if req.CustomerName == "" {
		return domain.ErrCustomerNameRequired
	}
	if req.CustomerEmail == "" {
		return domain.ErrCustomerEmailRequired
	}
	if len(req.Lines) == 0 {
		return domain.ErrOrderLinesRequired
	}
	if req.Status != "" && !req.Status.Valid() {
		return domain.ErrOrderStatusInvalid
	}
	for _, line := range req.Lines {
		if errs := line.Validate(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

// lockOrder возвращает индексы позиций, отсортированные по идентификатору
// товара; при равенстве сохраняется порядок подачи.
func lockOrder(lines []domain.LineRequest) []int {
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lines[order[a]].ProductID < lines[order[b]].ProductID
	})
	return order
}

// rejectionReason классифицирует ошибку отката для метрик.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrStockNegative):
		return "out_of_stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "persistence"
	}
}
