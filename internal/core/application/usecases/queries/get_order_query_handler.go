package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order and its line items.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle retrieves the order, or an ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	var id, clientID, merchantID uuid.UUID
	var createdAt, updatedAt time.Time

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_id,
			merchant_id,
			reference,
			delivery_address,
			delivery_lat,
			delivery_lon,
			instructions,
			payment_method,
			payment_status,
			status,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id, &clientID, &merchantID, &resp.Reference,
		&resp.DeliveryAddress, &resp.DeliveryLat, &resp.DeliveryLon,
		&resp.Instructions, &resp.PaymentMethod, &resp.PaymentStatus,
		&resp.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return GetOrderQueryResponse{}, err
	}

	resp.ID = id.String()
	resp.ClientID = clientID.String()
	resp.MerchantID = merchantID.String()
	resp.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)

	items, total, err := h.loadItems(ctx, query)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Items = items
	resp.Total = total.StringFixed(2)

	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, query GetOrderQuery) ([]OrderItemResponse, decimal.Decimal, error) {
	items := make([]OrderItemResponse, 0)
	total := decimal.Zero

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			product_id,
			name,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		var productID uuid.UUID
		var unitPrice decimal.Decimal

		if err = rows.Scan(&productID, &item.Name, &item.Quantity, &unitPrice); err != nil {
			return nil, decimal.Zero, err
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.ProductID = productID.String()
		item.UnitPrice = unitPrice.StringFixed(2)
		item.Subtotal = subtotal.StringFixed(2)
		total = total.Add(subtotal)
		items = append(items, item)
	}

	return items, total, rows.Err()
}
