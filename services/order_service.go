package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	awspkg "github.com/HamzaHashone/ecommerce-hijaab-collection/pkg/aws"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type OrderService interface {
	Checkout(ctx context.Context, userID primitive.ObjectID, idempotencyKey string) (*models.Order, *apperrors.Error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, *apperrors.Error)
	List(ctx context.Context, params models.OrderListParams) (*OrderListResult, *apperrors.Error)
	UpdateStatus(ctx context.Context, id string, req *models.OrderStatusRequest) (*models.Order, *apperrors.Error)
}

type orderServiceImpl struct {
	orders      repository.OrderRepo
	carts       repository.CartRepo
	users       repository.UserRepo
	idempotency CheckoutIdempotency
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     MetricsRecorder
	logger      *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepo,
	carts repository.CartRepo,
	users repository.UserRepo,
	idempotency CheckoutIdempotency,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics MetricsRecorder,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:      orders,
		carts:       carts,
		users:       users,
		idempotency: idempotency,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// replay returns the order an earlier request with the same key created.
func (s *orderServiceImpl) replay(ctx context.Context, userID primitive.ObjectID, key string) *models.Order {
	if s.idempotency == nil || key == "" {
		return nil
	}
	orderID, err := s.idempotency.Get(ctx, userID.Hex(), key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		return nil
	}
	oid, ok := parseID(orderID)
	if !ok {
		return nil
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil
	}
	return order
}

// Checkout places a cash order referencing the cart. The cart and stock are
// left as they are.
func (s *orderServiceImpl) Checkout(ctx context.Context, userID primitive.ObjectID, idempotencyKey string) (*models.Order, *apperrors.Error) {
	if order := s.replay(ctx, userID, idempotencyKey); order != nil {
		s.logger.Info("Returning order for replayed checkout", zap.String("order_id", order.ID.Hex()))
		return order, nil
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.BadRequest("Cart not found")
	}
	if err != nil {
		return nil, internal(err)
	}

	order := &models.Order{
		UserID:        userID,
		CartID:        cart.ID,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodCash,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, internal(err)
	}

	amount := subtract(cart.TotalPrice, cart.VoucherDiscount)
	if err := s.users.RecordOrder(ctx, userID, amount, order.CreatedAt); err != nil {
		s.logger.Error("Failed to update purchase totals", zap.String("user_id", userID.Hex()), zap.Error(err))
	}

	if s.idempotency != nil && idempotencyKey != "" {
		if err := s.idempotency.Set(ctx, userID.Hex(), idempotencyKey, order.ID.Hex()); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	s.publishOrderCreatedEvent(ctx, order, amount)
	emitCount(s.metrics, awspkg.MetricOrdersCreated, "order")
	emitValue(s.metrics, awspkg.MetricOrderValue, "order", amount)

	s.logger.Info("Order placed", zap.String("order_id", order.ID.Hex()), zap.Float64("amount", amount))
	return order, nil
}

func (s *orderServiceImpl) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, *apperrors.Error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return orders, nil
}

func (s *orderServiceImpl) List(ctx context.Context, params models.OrderListParams) (*OrderListResult, *apperrors.Error) {
	limit, skip := params.Limit, params.Skip
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	orders, total, err := s.orders.List(ctx, params.Status, limit, skip)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, internal(err)
	}
	return &OrderListResult{Orders: orders, Total: total}, nil
}

// UpdateStatus sets free-form status strings; there is no state machine.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id string, req *models.OrderStatusRequest) (*models.Order, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, apperrors.NotFound("Order not found")
	}

	updates := bson.M{}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.PaymentStatus != "" {
		updates["paymentStatus"] = req.PaymentStatus
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("Status or payment status is required")
	}

	order, err := s.orders.UpdateStatus(ctx, oid, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return order, nil
}

func (s *orderServiceImpl) publishOrderCreatedEvent(ctx context.Context, order *models.Order, amount float64) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Debug("SNS client not configured, skipping order_created event")
		return
	}

	eventBytes, err := json.Marshal(models.OrderCreatedEvent{
		EventType: "order_created",
		OrderID:   order.ID.Hex(),
		UserID:    order.UserID.Hex(),
		CartID:    order.CartID.Hex(),
		Amount:    amount,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal order_created event", zap.Error(err))
		return
	}

	if err := s.snsClient.Publish(ctx, s.snsTopicArn, eventBytes); err != nil {
		s.logger.Error("Failed to publish order_created event", zap.Error(err))
	}
}
