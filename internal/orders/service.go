package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	cartpkg "github.com/mritika-studio/storefront-backend/internal/cart"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"gorm.io/gorm"
)

// cartReader computes the priced, stock-filtered view of a user's cart.
type cartReader interface {
	ComputeCart(ctx context.Context, userID uuid.UUID) (*cartpkg.CartSummary, error)
}

// notifier records a back-office notification. Delivery is best-effort: a
// failed notification never fails the order.
type notifier interface {
	Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error
}

// Service owns checkout and order lifecycle operations.
type Service interface {
	// Checkout converts the user's current cart into an order, decrementing
	// tracked stock and clearing the cart atomically.
	Checkout(ctx context.Context, userID uuid.UUID, shipping ShippingInput) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)

	// Admin surface.
	ListAllOrders(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*OrderListResult, error)
	GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo     *Repository
	cartRepo *cartpkg.Repository
	carts    cartReader
	dbClient *db.Client
	notify   notifier
	logg     *logger.Logger
}

// NewService wires the checkout pipeline. notify may be nil when no
// notification sink is configured.
func NewService(
	repo *Repository,
	cartRepo *cartpkg.Repository,
	carts cartReader,
	dbClient *db.Client,
	notify notifier,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders: repository is required")
	}
	if cartRepo == nil {
		return nil, errors.New("orders: cart repository is required")
	}
	if carts == nil {
		return nil, errors.New("orders: cart reader is required")
	}
	if dbClient == nil {
		return nil, errors.New("orders: db client is required")
	}
	if logg == nil {
		return nil, errors.New("orders: logger is required")
	}
	return &service{
		repo:     repo,
		cartRepo: cartRepo,
		carts:    carts,
		dbClient: dbClient,
		notify:   notify,
		logg:     logg,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, shipping ShippingInput) (*OrderDTO, error) {
	if err := validateShipping(&shipping); err != nil {
		return nil, err
	}

	summary, err := s.carts.ComputeCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		UserID:        userID,
		Status:        enums.OrderStatusPending,
		Subtotal:      summary.Subtotal,
		Tax:           summary.Tax,
		Shipping:      summary.Shipping,
		Total:         summary.Total,
		ShippingName:  shipping.Name,
		ShippingPhone: shipping.Phone,
		AddressLine:   shipping.AddressLine,
		City:          shipping.City,
		State:         shipping.State,
		PostalCode:    shipping.PostalCode,
	}
	for _, item := range summary.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, item := range summary.Items {
			if err := s.reserveStock(ctx, txRepo, item); err != nil {
				return err
			}
		}
		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
		}
		if err := s.cartRepo.WithTx(tx).Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear cart")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout failed")
	}

	s.recordNewOrder(ctx, order)

	return NewOrderDTO(order), nil
}

// reserveStock decrements the line's stock pool inside the checkout
// transaction. Untracked products skip the decrement entirely.
func (s *service) reserveStock(ctx context.Context, txRepo *Repository, item cartpkg.CartItemView) error {
	product, err := txRepo.LoadProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load product")
	}
	if !product.TrackInventory {
		return nil
	}

	var ok bool
	if item.VariantID != nil {
		ok, err = txRepo.DecrementVariantStock(ctx, *item.VariantID, item.Quantity)
	} else {
		ok, err = txRepo.DecrementProductStock(ctx, item.ProductID, item.Quantity)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reserve stock")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %s", item.Name)).
			WithDetails(map[string]any{
				"product_id": item.ProductID,
				"requested":  item.Quantity,
			})
	}
	return nil
}

func (s *service) recordNewOrder(ctx context.Context, order *models.Order) {
	if s.notify == nil {
		return
	}
	orderID := order.ID
	message := fmt.Sprintf("Order %s placed for ₹%s", shortID(orderID), order.Total.StringFixed(2))
	if err := s.notify.Record(ctx, enums.NotificationTypeNewOrder, "New order", message, &orderID); err != nil {
		s.logg.Error(ctx, "new order notification failed", err)
	}
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, mapListError(err)
	}
	return buildListResult(rows, params.Limit), nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, mapFindError(err)
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListAllOrders(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*OrderListResult, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	params.Limit = pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListAll(ctx, status, params)
	if err != nil {
		return nil, mapListError(err)
	}
	return buildListResult(rows, params.Limit), nil
}

func (s *service) GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapFindError(err)
	}
	return NewOrderDTO(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapFindError(err)
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update order status")
	}
	order.Status = next
	return NewOrderDTO(order), nil
}

func buildListResult(rows []models.Order, limit int) *OrderListResult {
	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
}

func mapListError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list orders")
}

func validateShipping(shipping *ShippingInput) error {
	shipping.Name = strings.TrimSpace(shipping.Name)
	shipping.Phone = strings.TrimSpace(shipping.Phone)
	shipping.AddressLine = strings.TrimSpace(shipping.AddressLine)
	shipping.City = strings.TrimSpace(shipping.City)
	shipping.State = strings.TrimSpace(shipping.State)
	shipping.PostalCode = strings.TrimSpace(shipping.PostalCode)

	missing := make([]string, 0, 6)
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", shipping.Name},
		{"phone", shipping.Phone},
		{"address_line", shipping.AddressLine},
		{"city", shipping.City},
		{"state", shipping.State},
		{"postal_code", shipping.PostalCode},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("missing shipping fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}

func shortID(id uuid.UUID) string {
	return strings.Split(id.String(), "-")[0]
}
