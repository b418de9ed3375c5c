package order

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/messaging/kafka"
)

// Service объединяет операции над уже размещёнными заказами. Изменения
// статусов выполняются вне транзакции размещения и публикуют события через
// transactional outbox.
type Service struct {
	repo   domain.OrderRepository
	outbox domain.OutboxRepository
	logger *log.Entry
}

// NewService создаёт сервис заказов. outbox может быть nil — тогда события не пишутся.
func NewService(repo domain.OrderRepository, outbox domain.OutboxRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:   repo,
		outbox: outbox,
		logger: logger,
	}
}

// Get возвращает заказ с позициями.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

// List возвращает все заказы.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// Paginate возвращает страницу заказов, сортировка только по created_at.
func (s *Service) Paginate(ctx context.Context, req domain.PageRequest) (domain.OrderPage, error) {
	if req.OrderBy != "created_at" {
		req.OrderBy = "created_at"
	}
	return s.repo.Paginate(ctx, req)
}

// UpdateStatus меняет стадию исполнения заказа.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrOrderStatusInvalid
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	s.enqueueEvent(kafka.EventTypeOrderStatusChanged, updated)
	return updated, nil
}

// UpdatePaymentStatus меняет состояние оплаты заказа.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrPaymentStatusInvalid
	}

	updated, err := s.repo.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	s.enqueueEvent(kafka.EventTypeOrderPaymentUpdated, updated)
	return updated, nil
}

// Remove помечает заказ удалённым. Остатки товаров не восстанавливаются:
// операции отмены заказа в продукте нет.
func (s *Service) Remove(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return domain.Order{}, err
	}

	s.enqueueEvent(kafka.EventTypeOrderDeleted, order)
	return order, nil
}

// enqueueEvent пишет событие заказа в outbox. Ошибка не прерывает операцию:
// изменение заказа уже зафиксировано, событие лишь уведомляет подписчиков.
func (s *Service) enqueueEvent(eventType kafka.EventType, order domain.Order) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewOrderEvent(
		eventType,
		order.ID,
		order.CustomerEmail,
		string(order.Status),
		string(order.PaymentStatus),
		order.TotalMinor,
	)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to enqueue outbox event")
	}
}
