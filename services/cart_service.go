package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	awspkg "github.com/HamzaHashone/ecommerce-hijaab-collection/pkg/aws"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartService manages the single cart each user owns. Stock is checked but
// never reserved.
type CartService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error)
	Add(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	Update(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	Remove(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
}

type cartServiceImpl struct {
	carts    repository.CartRepo
	products repository.ProductRepo
	metrics  MetricsRecorder
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepo, products repository.ProductRepo, metrics MetricsRecorder, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, metrics: metrics, logger: logger}
}

func emptyCart(userID primitive.ObjectID) *models.Cart {
	return &models.Cart{UserID: userID, Items: []models.CartItem{}}
}

func (s *cartServiceImpl) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, internal(err)
	}
	return cart, nil
}

// checkStock rejects quantity when the variant holds less.
func checkStock(product *models.Product, color, size string, quantity int) *apperrors.Error {
	variant, colorFound, sizeFound := product.FindVariant(color, size)
	if !colorFound {
		return apperrors.BadRequest(fmt.Sprintf("Color %s not available", color))
	}
	if !sizeFound {
		return apperrors.BadRequest(fmt.Sprintf("Size %s not available in %s color", size, color))
	}
	if available := variant.Available(); available < quantity {
		return apperrors.BadRequest(fmt.Sprintf("Only %d available in %s size %s color of %s", available, size, color, product.Title))
	}
	return nil
}

func (s *cartServiceImpl) Add(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	if req.ProductID == "" {
		return nil, apperrors.BadRequest("Product ID is required")
	}
	quantity := int(req.Quantity)
	if quantity < 1 {
		return nil, apperrors.BadRequest("Quantity must be at least 1")
	}

	productID, ok := parseID(req.ProductID)
	if !ok {
		return nil, apperrors.NotFound("Product Not Found")
	}
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product Not Found")
	}
	if err != nil {
		return nil, internal(err)
	}

	if appErr := checkStock(product, req.Color, req.Size, quantity); appErr != nil {
		return nil, appErr
	}

	cart, appErr := s.addLine(ctx, userID, product, req.Color, req.Size, quantity)
	if appErr != nil {
		return nil, appErr
	}

	emitCount(s.metrics, awspkg.MetricCartItemsAdded, "cart")
	return cart, nil
}

func (s *cartServiceImpl) addLine(ctx context.Context, userID primitive.ObjectID, product *models.Product, color, size string, quantity int) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		cart = emptyCart(userID)
		mergeLine(cart, product, color, size, quantity)
		recalculate(cart)

		err = s.carts.Create(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			s.logger.Error("Failed to create cart", zap.String("user_id", userID.Hex()), zap.Error(err))
			return nil, internal(err)
		}
		// Lost a create race; merge into the winner's cart instead.
		cart, err = s.carts.FindByUser(ctx, userID)
		if err != nil {
			return nil, internal(err)
		}
	case err != nil:
		return nil, internal(err)
	}

	mergeLine(cart, product, color, size, quantity)
	recalculate(cart)
	if err := s.carts.SaveItems(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, internal(err)
	}
	return cart, nil
}

// mergeLine sums into an existing product/color/size line or appends one
// with a snapshot of product.
func mergeLine(cart *models.Cart, product *models.Product, color, size string, quantity int) {
	for i := range cart.Items {
		if cart.Items[i].Matches(product.ID, color, size) {
			cart.Items[i].Quantity += quantity
			return
		}
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:        primitive.NewObjectID(),
		ProductID: product.ID,
		Product:   *product,
		Color:     color,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: product.Price,
	})
}

func (s *cartServiceImpl) findCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Cart not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return cart, nil
}

func (s *cartServiceImpl) Update(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.findCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	productID, _ := parseID(req.ProductID)
	idx := -1
	for i := range cart.Items {
		if cart.Items[i].Matches(productID, req.Color, req.Size) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NotFound("Item not found in cart")
	}

	quantity := int(req.Quantity)
	if quantity < 1 {
		return nil, apperrors.BadRequest("Quantity must be at least 1")
	}

	line := &cart.Items[idx]
	if appErr := checkStock(&line.Product, line.Color, line.Size, quantity); appErr != nil {
		return nil, appErr
	}

	line.Quantity = quantity
	recalculate(cart)
	if err := s.carts.SaveItems(ctx, cart); err != nil {
		return nil, internal(err)
	}
	return cart, nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.findCart(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	productID, _ := parseID(req.ProductID)
	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if !item.Matches(productID, req.Color, req.Size) {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return nil, apperrors.NotFound("Item not found in cart")
	}

	cart.Items = kept
	recalculate(cart)
	if err := s.carts.SaveItems(ctx, cart); err != nil {
		return nil, internal(err)
	}
	return cart, nil
}
