package persistence

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/sale"
	"github.com/solarmd/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeFileStore struct {
	present map[string]bool
}

func (s *fakeFileStore) Exists(_ context.Context, path string) (bool, error) {
	return s.present[path], nil
}

func (s *fakeFileStore) Save(_ context.Context, path string, _ io.Reader) error {
	s.present[path] = true
	return nil
}

func (s *fakeFileStore) Delete(_ context.Context, path string) error {
	delete(s.present, path)
	return nil
}

type fakeJanitor struct {
	removed []string
}

func (j *fakeJanitor) Remove(path string) {
	j.removed = append(j.removed, path)
}

func setupHookTestDB(t *testing.T) (*gorm.DB, *lifecycle.Dispatcher, *fakeFileStore, *fakeJanitor) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&catalog.ProductPrice{},
		&catalog.ProductPriceHistory{},
		&sale.Cart{},
		&sale.CartItem{},
		&sale.Order{},
		&sale.OrderItem{},
		&sale.OrderStatusHistory{},
	)
	require.NoError(t, err)

	files := &fakeFileStore{present: map[string]bool{}}
	janitor := &fakeJanitor{}
	dispatcher := lifecycle.NewDispatcher(zap.NewNop())

	bindings := catalog.Bindings(
		NewGormImageSiblingStore(db),
		NewGormPriceHistoryRepository(db),
		files,
		janitor,
		zap.NewNop(),
	)
	bindings = append(bindings, sale.Bindings(NewGormOrderStatusHistoryRepository(db), zap.NewNop())...)
	for _, b := range bindings {
		require.NoError(t, dispatcher.Attach(b))
	}

	return db, dispatcher, files, janitor
}

func TestProductImageRepository_PrimaryEnforcement(t *testing.T) {
	db, hooks, files, _ := setupHookTestDB(t)
	repo := NewGormProductImageRepository(db, hooks)
	ctx := context.Background()

	productID := uuid.New()
	files.present["static/shop/product/a.jpg"] = true
	files.present["static/shop/product/b.jpg"] = true

	first, err := catalog.NewProductImage(productID, "static/shop/product/a.jpg", "a.jpg", 1024)
	require.NoError(t, err)
	first.MarkPrimary()
	require.NoError(t, repo.Save(ctx, first))

	second, err := catalog.NewProductImage(productID, "static/shop/product/b.jpg", "b.jpg", 1024)
	require.NoError(t, err)
	second.MarkPrimary()
	require.NoError(t, repo.Save(ctx, second))

	images, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
			assert.Equal(t, second.ID, img.ID)
		}
	}
	assert.Equal(t, 1, primaries, "exactly one image may carry the primary flag")
}

func TestProductImageRepository_DefaultFallback(t *testing.T) {
	db, hooks, _, _ := setupHookTestDB(t)
	repo := NewGormProductImageRepository(db, hooks)
	ctx := context.Background()

	// The declared file was never uploaded, so the fallback hook swaps in the
	// default path before the row lands.
	img, err := catalog.NewProductImage(uuid.New(), "static/shop/product/missing.jpg", "missing.jpg", 1024)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, img))

	found, err := repo.FindByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultProductImagePath, found.ImagePath)
}

func TestProductImageRepository_DeleteCleanupAndPromotion(t *testing.T) {
	db, hooks, files, janitor := setupHookTestDB(t)
	repo := NewGormProductImageRepository(db, hooks)
	ctx := context.Background()

	productID := uuid.New()
	files.present["static/shop/product/old.jpg"] = true
	files.present["static/shop/product/new.jpg"] = true

	older, err := catalog.NewProductImage(productID, "static/shop/product/old.jpg", "old.jpg", 1024)
	require.NoError(t, err)
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, older))

	newer, err := catalog.NewProductImage(productID, "static/shop/product/new.jpg", "new.jpg", 1024)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newer))

	primary, err := catalog.NewProductImage(productID, "static/shop/product/prime.jpg", "prime.jpg", 1024)
	require.NoError(t, err)
	files.present["static/shop/product/prime.jpg"] = true
	primary.MarkPrimary()
	require.NoError(t, repo.Save(ctx, primary))

	require.NoError(t, repo.Delete(ctx, primary.ID))

	assert.Contains(t, janitor.removed, "static/shop/product/prime.jpg")

	// The most recently created survivor inherits the primary flag.
	images, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	for _, img := range images {
		if img.ID == newer.ID {
			assert.True(t, img.IsPrimary)
		} else {
			assert.False(t, img.IsPrimary)
		}
	}
}

func TestProductImageRepository_DeleteNeverRemovesDefaultFile(t *testing.T) {
	db, hooks, _, janitor := setupHookTestDB(t)
	repo := NewGormProductImageRepository(db, hooks)
	ctx := context.Background()

	img, err := catalog.NewProductImage(uuid.New(), "", "placeholder.png", 512)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, img))

	require.NoError(t, repo.Delete(ctx, img.ID))
	assert.Empty(t, janitor.removed)
}

func TestProductPriceRepository_HistoryTrail(t *testing.T) {
	db, hooks, _, _ := setupHookTestDB(t)
	prices := NewGormProductPriceRepository(db, hooks)
	history := NewGormPriceHistoryRepository(db)

	staffID := uuid.New()
	ctx := shared.WithActor(context.Background(), staffID)

	price, err := catalog.NewProductPrice(
		uuid.New(),
		catalog.PriceTypeUser,
		decimal.NewFromFloat(100),
		decimal.NewFromFloat(1785),
		decimal.NewFromFloat(17.85),
	)
	require.NoError(t, err)
	require.NoError(t, prices.Save(ctx, price))

	// Insert writes a baseline row with old equal to new.
	rows, err := history.FindByPrice(ctx, price.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].OldUSD.Equal(rows[0].NewUSD))
	assert.Equal(t, staffID, rows[0].ChangedBy)

	require.NoError(t, price.ChangeAmounts(
		decimal.NewFromFloat(120),
		decimal.NewFromFloat(2142),
		decimal.NewFromFloat(17.85),
	))
	require.NoError(t, prices.Save(ctx, price))

	rows, err = history.FindByPrice(ctx, price.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].OldUSD.Equal(decimal.NewFromFloat(100)))
	assert.True(t, rows[0].NewUSD.Equal(decimal.NewFromFloat(120)))

	// A rate refresh without an amount change appends nothing.
	require.NoError(t, price.ChangeAmounts(
		decimal.NewFromFloat(120),
		decimal.NewFromFloat(2142),
		decimal.NewFromFloat(18.10),
	))
	require.NoError(t, prices.Save(ctx, price))

	rows, err = history.FindByPrice(ctx, price.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProductPriceRepository_UnattributableChangeRollsBack(t *testing.T) {
	db, hooks, _, _ := setupHookTestDB(t)
	prices := NewGormProductPriceRepository(db, hooks)
	ctx := context.Background()

	price, err := catalog.NewProductPrice(
		uuid.New(),
		catalog.PriceTypeAnonymous,
		decimal.NewFromFloat(50),
		decimal.NewFromFloat(892),
		decimal.NewFromFloat(17.85),
	)
	require.NoError(t, err)

	// No ambient actor and no audit stamps: the hook refuses, and the
	// transaction never creates the price row.
	err = prices.Save(ctx, price)
	require.Error(t, err)
	var violation *shared.IntegrityViolation
	assert.True(t, errors.As(err, &violation))

	_, err = prices.FindByProductAndType(ctx, price.ProductID, catalog.PriceTypeAnonymous)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepository_StatusHistoryTrail(t *testing.T) {
	db, hooks, _, _ := setupHookTestDB(t)
	orders := NewGormOrderRepository(db, hooks)
	historyRepo := NewGormOrderStatusHistoryRepository(db)

	staffID := uuid.New()
	ctx := shared.WithActor(context.Background(), staffID)

	cart, err := sale.NewCart(uuid.New())
	require.NoError(t, err)
	productID := uuid.New()
	require.NoError(t, cart.AddItem(productID, 2, decimal.NewFromFloat(1785)))
	require.NoError(t, cart.CheckOut())

	order, err := sale.NewOrderFromCart(cart, sale.NewOrderNumber(time.Now(), 42), map[uuid.UUID]string{
		productID: "Panou solar 450W",
	})
	require.NoError(t, err)
	require.NoError(t, orders.Save(ctx, order))

	// Creation is not a transition, nothing is audited yet.
	rows, err := historyRepo.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, order.TransitionTo(sale.OrderConfirmed))
	require.NoError(t, orders.Save(ctx, order))

	rows, err = historyRepo.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sale.OrderPending, rows[0].OldStatus)
	assert.Equal(t, sale.OrderConfirmed, rows[0].NewStatus)
	assert.Equal(t, staffID, rows[0].ChangedBy)

	require.NoError(t, order.TransitionTo(sale.OrderShipped))
	require.NoError(t, orders.Save(ctx, order))

	rows, err = historyRepo.FindByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, sale.OrderConfirmed, rows[1].OldStatus)
	assert.Equal(t, sale.OrderShipped, rows[1].NewStatus)
}

func TestCartRepository_SaveReplacesItems(t *testing.T) {
	db, _, _, _ := setupHookTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()

	clientID := uuid.New()
	cart, err := sale.NewCart(clientID)
	require.NoError(t, err)
	keepID, dropID := uuid.New(), uuid.New()
	require.NoError(t, cart.AddItem(keepID, 1, decimal.NewFromFloat(500)))
	require.NoError(t, cart.AddItem(dropID, 3, decimal.NewFromFloat(120)))
	require.NoError(t, repo.Save(ctx, cart))

	require.NoError(t, cart.RemoveItem(dropID))
	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindOpenByClient(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, keepID, found.Items[0].ProductID)
}

func TestCategoryRepository_ExistsByNameFold(t *testing.T) {
	db, hooks, _, _ := setupHookTestDB(t)
	repo := NewGormCategoryRepository(db, hooks)
	ctx := context.Background()

	category, err := catalog.NewCategory("Panouri Solare", "panouri fotovoltaice")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, category))

	exists, err := repo.ExistsByNameFold(ctx, "panouri solare", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	// The row itself is excluded when checking for rename collisions.
	exists, err = repo.ExistsByNameFold(ctx, "PANOURI SOLARE", category.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
