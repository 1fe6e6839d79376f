package queries

import (
	"context"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListAvailableDeliveriesQueryHandler lists the unassigned pool. With a
// center, the pickup coordinates are prefiltered with a bounding box in SQL
// and exact-filtered with haversine in Go; tasks without a pickup point are
// kept and listed last, since a courier may still want them.
type ListAvailableDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewListAvailableDeliveriesQueryHandler creates a handler for pool listings.
func NewListAvailableDeliveriesQueryHandler(db *gorm.DB) ListAvailableDeliveriesQueryHandler {
	return ListAvailableDeliveriesQueryHandler{db: db}
}

// Handle lists available tasks, nearest first when a center is given.
func (h ListAvailableDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableDeliveriesQuery,
) ([]AvailableDeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			order_id,
			pickup_address,
			pickup_lat,
			pickup_lon,
			dropoff_address,
			fee,
			created_at
		FROM deliveries
		WHERE status = 'unassigned'
	`
	args := make([]any, 0, 4)

	if center := query.Center(); center != nil {
		box, err := kernel.NewBoundingBox(*center, query.RadiusM())
		if err != nil {
			return nil, err
		}
		sqlQuery += `
		AND (
			pickup_lat IS NULL
			OR (pickup_lat BETWEEN ? AND ? AND pickup_lon BETWEEN ? AND ?)
		)`
		args = append(args, box.MinLatitude(), box.MaxLatitude(), box.MinLongitude(), box.MaxLongitude())
	}
	sqlQuery += `
		ORDER BY created_at`

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]AvailableDeliveryResponse, 0)
	for rows.Next() {
		var task AvailableDeliveryResponse
		var id, orderID uuid.UUID
		var fee decimal.Decimal
		var createdAt time.Time

		err = rows.Scan(
			&id, &orderID, &task.PickupAddress, &task.PickupLat, &task.PickupLon,
			&task.DropoffAddress, &fee, &createdAt,
		)
		if err != nil {
			return nil, err
		}

		task.ID = id.String()
		task.OrderID = orderID.String()
		task.Fee = fee.StringFixed(2)
		task.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	center := query.Center()
	if center == nil {
		return tasks, nil
	}

	return rankByDistance(tasks, *center, query.RadiusM())
}

// rankByDistance drops located tasks outside the radius, stamps distances and
// sorts nearest first. Tasks without a pickup point sort after every located
// one, keeping their relative creation order.
func rankByDistance(tasks []AvailableDeliveryResponse, center kernel.GeoPoint, radiusM float64) ([]AvailableDeliveryResponse, error) {
	ranked := make([]AvailableDeliveryResponse, 0, len(tasks))
	for _, task := range tasks {
		if task.PickupLat == nil || task.PickupLon == nil {
			ranked = append(ranked, task)
			continue
		}

		pickup, err := kernel.NewGeoPoint(*task.PickupLat, *task.PickupLon)
		if err != nil {
			return nil, err
		}
		distance, err := center.DistanceTo(pickup)
		if err != nil {
			return nil, err
		}
		if distance > radiusM {
			continue
		}

		task.DistanceM = &distance
		ranked = append(ranked, task)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DistanceM, ranked[j].DistanceM
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	return ranked, nil
}
