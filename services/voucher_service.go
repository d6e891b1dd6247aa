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

// VoucherService applies product-scoped vouchers to carts and manages them.
type VoucherService interface {
	Apply(ctx context.Context, userID primitive.ObjectID, code string) (*models.ApplyVoucherResult, *apperrors.Error)
	Remove(ctx context.Context, userID primitive.ObjectID) *apperrors.Error
	Create(ctx context.Context, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error)
	List(ctx context.Context, limit, skip int64) (*VoucherListResult, *apperrors.Error)
	Get(ctx context.Context, id string) (*models.Voucher, *apperrors.Error)
	Update(ctx context.Context, id string, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error)
	Delete(ctx context.Context, id string) *apperrors.Error
}

type voucherServiceImpl struct {
	vouchers    repository.VoucherRepo
	carts       repository.CartRepo
	products    repository.ProductRepo
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	metrics     MetricsRecorder
	logger      *zap.Logger
}

func NewVoucherService(
	vouchers repository.VoucherRepo,
	carts repository.CartRepo,
	products repository.ProductRepo,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	metrics MetricsRecorder,
	logger *zap.Logger,
) VoucherService {
	return &voucherServiceImpl{
		vouchers:    vouchers,
		carts:       carts,
		products:    products,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

func errVoucherNotFound() *apperrors.Error { return apperrors.BadRequest("Voucher not found") }

func (s *voucherServiceImpl) cartFor(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.BadRequest("Cart not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return cart, nil
}

func (s *voucherServiceImpl) byCode(ctx context.Context, code string) (*models.Voucher, *apperrors.Error) {
	if code == "" {
		return nil, errVoucherNotFound()
	}
	voucher, err := s.vouchers.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVoucherNotFound()
	}
	if err != nil {
		return nil, internal(err)
	}
	return voucher, nil
}

// Apply checks and redeems a voucher. The usage check and the participant
// append are separate writes, so two concurrent applies may both pass.
func (s *voucherServiceImpl) Apply(ctx context.Context, userID primitive.ObjectID, code string) (*models.ApplyVoucherResult, *apperrors.Error) {
	cart, appErr := s.cartFor(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	voucher, appErr := s.byCode(ctx, code)
	if appErr != nil {
		return nil, appErr
	}
	if !cart.HasProduct(voucher.ProductID) {
		return nil, apperrors.BadRequest("Voucher not applicable to this product")
	}

	product, err := s.products.FindByID(ctx, voucher.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.BadRequest("Product not found")
	}
	if err != nil {
		return nil, internal(err)
	}

	if voucher.UsesBy(userID) >= voucher.MaxUses {
		return nil, apperrors.BadRequest("Voucher has reached its maximum usage")
	}

	var discount float64
	row := models.Participant{UserID: userID, Uses: 1}
	switch voucher.DiscountType {
	case models.DiscountPercentage:
		discount = percentageOf(product.Price, voucher.Discount)
	case models.DiscountFixed:
		discount = voucher.Discount
		// A returning user's new row copies their first row's uses.
		if first, ok := voucher.FirstParticipant(userID); ok {
			row.Uses = first.Uses
		}
	default:
		return nil, apperrors.BadRequest("Invalid discount type")
	}

	code = voucher.Code
	if err := s.carts.SetVoucher(ctx, cart.ID, &code, discount); err != nil {
		s.logger.Error("Failed to set cart voucher", zap.String("cart_id", cart.ID.Hex()), zap.Error(err))
		return nil, internal(err)
	}
	if err := s.vouchers.AddParticipant(ctx, voucher.ID, row); err != nil {
		s.logger.Error("Failed to record voucher participant", zap.String("voucher_id", voucher.ID.Hex()), zap.Error(err))
		return nil, internal(err)
	}

	result := &models.ApplyVoucherResult{
		Discount:   discount,
		TotalPrice: subtract(cart.TotalPrice, discount),
	}

	s.publishVoucherAppliedEvent(ctx, voucher, userID, discount, cart.TotalPrice)
	emitCount(s.metrics, awspkg.MetricVouchersApplied, "voucher")
	return result, nil
}

func (s *voucherServiceImpl) Remove(ctx context.Context, userID primitive.ObjectID) *apperrors.Error {
	cart, appErr := s.cartFor(ctx, userID)
	if appErr != nil {
		return appErr
	}
	code := ""
	if cart.VoucherCode != nil {
		code = *cart.VoucherCode
	}
	voucher, appErr := s.byCode(ctx, code)
	if appErr != nil {
		return appErr
	}
	if !cart.HasProduct(voucher.ProductID) {
		return apperrors.BadRequest("Voucher not applicable on any product in the cart")
	}

	if err := s.carts.SetVoucher(ctx, cart.ID, nil, 0); err != nil {
		return internal(err)
	}

	// No floor: uses may go negative.
	if idx := voucher.LastParticipantIndex(userID); idx >= 0 {
		if err := s.vouchers.IncParticipantUses(ctx, voucher.ID, idx, -1); err != nil {
			s.logger.Error("Failed to decrement voucher uses", zap.String("voucher_id", voucher.ID.Hex()), zap.Error(err))
			return internal(err)
		}
	}
	return nil
}

func voucherFields(req *models.VoucherRequest) (bson.M, *apperrors.Error) {
	productID, ok := parseID(req.ProductID)
	if !ok {
		return nil, apperrors.BadRequest("Invalid voucher data")
	}
	return bson.M{
		"name":         req.Name,
		"productId":    productID,
		"discountType": req.DiscountType,
		"discount":     req.Discount,
		"code":         req.Code,
		"maxUses":      req.MaxUses,
		"expiresAt":    req.ExpiresAt,
	}, nil
}

func (s *voucherServiceImpl) Create(ctx context.Context, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error) {
	fields, appErr := voucherFields(req)
	if appErr != nil {
		return nil, appErr
	}
	productID := fields["productId"].(primitive.ObjectID)

	voucher := &models.Voucher{
		Name:         req.Name,
		ProductID:    productID,
		DiscountType: req.DiscountType,
		Discount:     req.Discount,
		Code:         req.Code,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		Participants: []models.Participant{},
	}
	if err := s.vouchers.Create(ctx, voucher); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("Voucher code already exists")
		}
		s.logger.Error("Failed to create voucher", zap.Error(err))
		return nil, internal(err)
	}

	s.logger.Info("Voucher created", zap.String("code", voucher.Code), zap.String("type", string(voucher.DiscountType)))
	return voucher, nil
}

func (s *voucherServiceImpl) List(ctx context.Context, limit, skip int64) (*VoucherListResult, *apperrors.Error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	vouchers, total, err := s.vouchers.List(ctx, limit, skip)
	if err != nil {
		s.logger.Error("Failed to list vouchers", zap.Error(err))
		return nil, internal(err)
	}
	return &VoucherListResult{Vouchers: vouchers, Total: total}, nil
}

func (s *voucherServiceImpl) Get(ctx context.Context, id string) (*models.Voucher, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, errVoucherNotFound()
	}
	voucher, err := s.vouchers.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVoucherNotFound()
	}
	if err != nil {
		return nil, internal(err)
	}
	return voucher, nil
}

func (s *voucherServiceImpl) Update(ctx context.Context, id string, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, errVoucherNotFound()
	}
	fields, appErr := voucherFields(req)
	if appErr != nil {
		return nil, appErr
	}

	voucher, err := s.vouchers.Update(ctx, oid, fields)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, errVoucherNotFound()
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperrors.BadRequest("Voucher code already exists")
	case err != nil:
		s.logger.Error("Failed to update voucher", zap.String("voucher_id", id), zap.Error(err))
		return nil, internal(err)
	}
	return voucher, nil
}

func (s *voucherServiceImpl) Delete(ctx context.Context, id string) *apperrors.Error {
	oid, ok := parseID(id)
	if !ok {
		return errVoucherNotFound()
	}
	deleted, err := s.vouchers.Delete(ctx, oid)
	if err != nil {
		return internal(err)
	}
	if !deleted {
		return errVoucherNotFound()
	}
	s.logger.Info("Voucher deleted", zap.String("voucher_id", id))
	return nil
}

// publishVoucherAppliedEvent publishes a voucher_applied event to SNS.
func (s *voucherServiceImpl) publishVoucherAppliedEvent(ctx context.Context, voucher *models.Voucher, userID primitive.ObjectID, discount, cartTotal float64) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Debug("SNS client not configured, skipping voucher_applied event")
		return
	}

	event := models.VoucherAppliedEvent{
		EventType: "voucher_applied",
		VoucherID: voucher.ID.Hex(),
		Code:      voucher.Code,
		UserID:    userID.Hex(),
		Discount:  discount,
		CartTotal: cartTotal,
		Timestamp: time.Now(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal voucher_applied event", zap.Error(err))
		return
	}

	if err := s.snsClient.Publish(ctx, s.snsTopicArn, eventBytes); err != nil {
		s.logger.Error("Failed to publish voucher_applied event", zap.Error(err))
		return
	}

	s.logger.Info("Published voucher_applied event",
		zap.String("voucher_code", voucher.Code),
		zap.Float64("discount", discount),
	)
}
