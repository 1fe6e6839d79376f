package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository over GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates an order repository on the given connection.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing order. The row is guarded on the status the
// aggregate was loaded with: a concurrent transition makes the update match
// nothing and surfaces as a ConflictError.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Omit("Items").
		Where("id = ? AND status = ?", dto.ID, aggregate.LoadedStatus().String()).
		Updates(map[string]any{
			"status":         dto.Status,
			"payment_status": dto.PaymentStatus,
			"instructions":   dto.Instructions,
			"updated_at":     dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	// Items are only editable while the order is in created; replace them
	// wholesale in that window.
	if aggregate.Status() == order.StatusCreated {
		if err := r.replaceItems(ctx, dto); err != nil {
			return err
		}
	}

	return nil
}

func (r *GormOrderRepository) replaceItems(ctx context.Context, dto OrderDTO) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&OrderItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Items).Error
}

// Get retrieves an order with its items, or an ObjectNotFoundError.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByClient retrieves a client's orders, newest first.
func (r *GormOrderRepository) GetAllByClient(ctx context.Context, clientID kernel.UUID) ([]*order.Order, error) {
	return r.getAllBy(ctx, "client_id = ?", clientID)
}

// GetAllByMerchant retrieves a merchant's orders, newest first.
func (r *GormOrderRepository) GetAllByMerchant(ctx context.Context, merchantID kernel.UUID) ([]*order.Order, error) {
	return r.getAllBy(ctx, "merchant_id = ?", merchantID)
}

func (r *GormOrderRepository) getAllBy(ctx context.Context, cond string, id kernel.UUID) ([]*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&dtos, cond, id.Bytes()).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}
