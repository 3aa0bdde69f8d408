package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/sale"
	"github.com/solarmd/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements sale.CartRepository
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart, items included
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Cart, error) {
	var cart sale.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindOpenByClient finds the client's open cart
func (r *GormCartRepository) FindOpenByClient(ctx context.Context, clientID uuid.UUID) (*sale.Cart, error) {
	var cart sale.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("client_id = ? AND status = ?", clientID, sale.CartOpen).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// Save creates or updates a cart and its items
func (r *GormCartRepository) Save(ctx context.Context, cart *sale.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(cart).Error; err != nil {
			return err
		}
		// Items removed in memory must go from the table too
		ids := make([]uuid.UUID, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ID)
		}
		query := tx.Where("cart_id = ?", cart.ID)
		if len(ids) > 0 {
			query = query.Where("id NOT IN ?", ids)
		}
		return query.Delete(&sale.CartItem{}).Error
	})
}

// Delete deletes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sale.CartItem{}, "cart_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&sale.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ sale.CartRepository = (*GormCartRepository)(nil)

// GormOrderRepository implements sale.OrderRepository. Updates run the sale
// lifecycle hooks, so every status transition lands in the history table
// within the same transaction.
type GormOrderRepository struct {
	db    *gorm.DB
	hooks *lifecycle.Dispatcher
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB, hooks *lifecycle.Dispatcher) *GormOrderRepository {
	return &GormOrderRepository{db: db, hooks: hooks}
}

// FindByID finds an order, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Order, error) {
	var order sale.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its public number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*sale.Order, error) {
	var order sale.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByClient lists a client's orders, newest first
func (r *GormOrderRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sale.Order, error) {
	var orders []sale.Order
	query := r.db.WithContext(ctx).Model(&sale.Order{}).
		Where("client_id = ?", clientID).
		Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus lists orders in one fulfilment status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status sale.OrderStatus, filter shared.Filter) ([]sale.Order, error) {
	var orders []sale.Order
	query := applyFilter(
		r.db.WithContext(ctx).Model(&sale.Order{}).Where("status = ?", status),
		filter,
	)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// NextSequence reserves the next order-number sequence value
func (r *GormOrderRepository) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('order_number_seq')").
		Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}

// Save creates or updates an order, running the sale hooks in the write
// transaction
func (r *GormOrderRepository) Save(ctx context.Context, order *sale.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := lifecycle.WithTx(ctx, tx)

		var existing sale.Order
		err := tx.First(&existing, "id = ?", order.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := &lifecycle.Mutation{Entity: sale.EntityOrder, Target: order}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeInsert, m); err != nil {
				return err
			}
			if err := tx.Create(order).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterInsert, m)
		case err != nil:
			return err
		default:
			m := &lifecycle.Mutation{
				Entity:  sale.EntityOrder,
				Target:  order,
				Changes: orderChanges(&existing, order),
			}
			if err := r.hooks.Dispatch(txCtx, lifecycle.BeforeUpdate, m); err != nil {
				return err
			}
			if err := tx.Save(order).Error; err != nil {
				return err
			}
			return r.hooks.Dispatch(txCtx, lifecycle.AfterUpdate, m)
		}
	})
}

// orderChanges records the fields the status hook cares about
func orderChanges(old, updated *sale.Order) lifecycle.Changes {
	changes := lifecycle.Changes{}
	if old.Status != updated.Status {
		changes["status"] = lifecycle.Change{Old: old.Status, New: updated.Status}
	}
	if old.Comment != updated.Comment {
		changes["comment"] = lifecycle.Change{Old: old.Comment, New: updated.Comment}
	}
	return changes
}

var _ sale.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderStatusHistoryRepository reads the append-only status audit trail
// and doubles as the appender the status hook writes through.
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusHistoryRepository creates a new GormOrderStatusHistoryRepository
func NewGormOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// FindByOrder lists transitions of one order, oldest first
func (r *GormOrderStatusHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]sale.OrderStatusHistory, error) {
	var rows []sale.OrderStatusHistory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Append inserts one transition row within the active transaction
func (r *GormOrderStatusHistoryRepository) Append(ctx context.Context, row *sale.OrderStatusHistory) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(row).Error
}

var (
	_ sale.OrderStatusHistoryRepository = (*GormOrderStatusHistoryRepository)(nil)
	_ sale.StatusHistoryAppender        = (*GormOrderStatusHistoryRepository)(nil)
)
