package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	blogapp "github.com/solarmd/backend/internal/application/blog"
	catalogapp "github.com/solarmd/backend/internal/application/catalog"
	identityapp "github.com/solarmd/backend/internal/application/identity"
	marketingapp "github.com/solarmd/backend/internal/application/marketing"
	saleapp "github.com/solarmd/backend/internal/application/sale"
	"github.com/solarmd/backend/internal/domain/blog"
	"github.com/solarmd/backend/internal/domain/catalog"
	"github.com/solarmd/backend/internal/domain/identity"
	"github.com/solarmd/backend/internal/domain/lifecycle"
	"github.com/solarmd/backend/internal/domain/marketing"
	"github.com/solarmd/backend/internal/domain/sale"
	"github.com/solarmd/backend/internal/infrastructure/auth"
	"github.com/solarmd/backend/internal/infrastructure/cache"
	"github.com/solarmd/backend/internal/infrastructure/config"
	"github.com/solarmd/backend/internal/infrastructure/event"
	"github.com/solarmd/backend/internal/infrastructure/logger"
	"github.com/solarmd/backend/internal/infrastructure/persistence"
	"github.com/solarmd/backend/internal/infrastructure/storage"
	"github.com/solarmd/backend/internal/interfaces/http/handler"
	"github.com/solarmd/backend/internal/interfaces/http/middleware"
	"github.com/solarmd/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting solarmd backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Media storage and the post-commit file janitor
	files, err := storage.NewFileStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize file storage", zap.Error(err))
	}
	janitor := storage.NewJanitor(files, log)
	defer janitor.Close()

	// Lifecycle dispatcher: every repository write runs through it, and the
	// registry toggles the per-domain hook groups attached to it.
	hooks := lifecycle.NewDispatcher(log)
	registry := lifecycle.NewRegistry(hooks, log)

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB, hooks)
	productRepo := persistence.NewGormProductRepository(db.DB)
	productImageRepo := persistence.NewGormProductImageRepository(db.DB, hooks)
	imageSiblings := persistence.NewGormImageSiblingStore(db.DB)
	priceRepo := persistence.NewGormProductPriceRepository(db.DB, hooks)
	priceHistoryRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB, hooks)
	postImageRepo := persistence.NewGormPostImageRepository(db.DB, hooks)
	postImageSiblings := persistence.NewGormPostImageSiblingStore(db.DB)
	editHistoryRepo := persistence.NewGormPostEditHistoryRepository(db.DB)
	interactionRepo := persistence.NewGormUserInteractionRepository(db.DB, hooks)
	requestRepo := persistence.NewGormUserRequestRepository(db.DB)
	targetStore := persistence.NewGormTargetStore(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB, hooks)
	statusHistoryRepo := persistence.NewGormOrderStatusHistoryRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)

	// Derived-state listener groups, one per domain
	registry.AddGroup(catalog.ListenerDomain,
		catalog.Bindings(imageSiblings, priceHistoryRepo, files, janitor, log))
	registry.AddGroup(blog.ListenerDomain,
		blog.Bindings(postImageSiblings, editHistoryRepo, files, janitor, log))
	registry.AddGroup(marketing.ListenerDomain,
		marketing.Bindings(targetStore, log))
	registry.AddGroup(sale.ListenerDomain,
		sale.Bindings(statusHistoryRepo, log))
	registry.AddGroup(identity.ListenerDomain,
		identity.Bindings([]string{
			catalog.EntityCategory,
			catalog.EntityProductImage,
			catalog.EntityProductPrice,
			blog.EntityPost,
			blog.EntityPostImage,
			sale.EntityOrder,
		}, log))

	if err := registerListeners(registry, cfg.Listeners, log); err != nil {
		log.Fatal("listener registration failed", zap.Error(err))
	}

	// Event bus with a wildcard audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingEventHandler(log))

	// Category read cache. The storefront works without Redis, so a failed
	// connection downgrades to uncached reads instead of aborting startup.
	var categoryCache catalogapp.CategoryCache
	if redisClient, err := cache.NewRedisClient(&cfg.Redis); err != nil {
		log.Warn("redis unavailable, category cache disabled", zap.Error(err))
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		categoryCache = cache.NewRedisCatalogCache(redisClient, 0)
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	categoryService := catalogapp.NewCategoryService(categoryRepo, categoryCache, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, eventBus, log)
	imageService := catalogapp.NewProductImageService(productImageRepo, productRepo, eventBus, log)
	priceService := catalogapp.NewPriceService(priceRepo, priceHistoryRepo, productRepo, rateRepo, eventBus, log)
	postService := blogapp.NewPostService(postRepo, postImageRepo, editHistoryRepo, eventBus, log)
	interactionService := marketingapp.NewInteractionService(interactionRepo, requestRepo, log)
	orderService := saleapp.NewOrderService(cartRepo, orderRepo, statusHistoryRepo, productRepo, priceRepo, eventBus, log)
	authService := identityapp.NewAuthService(staffRepo, clientRepo, jwtService, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService, imageService, priceService)
	postHandler := handler.NewPostHandler(postService)
	orderHandler := handler.NewOrderHandler(orderService)
	interactionHandler := handler.NewInteractionHandler(interactionService)
	listenerHandler := handler.NewListenerHandler(registry)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAdminMiddleware(middleware.StaffAuth(jwtService)),
	)
	r.Register(systemHandler).
		Register(authHandler).
		Register(categoryHandler).
		Register(productHandler).
		Register(postHandler).
		Register(orderHandler).
		Register(interactionHandler)
	r.RegisterAdmin(authHandler).
		RegisterAdmin(categoryHandler).
		RegisterAdmin(productHandler).
		RegisterAdmin(postHandler).
		RegisterAdmin(orderHandler).
		RegisterAdmin(interactionHandler).
		RegisterAdmin(listenerHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited gracefully")
}

// registerListeners attaches the listener groups at startup, honoring the
// configured disabled list. With fail_fast any registration failure aborts
// startup; otherwise failed domains are logged and stay unregistered.
func registerListeners(registry *lifecycle.Registry, cfg config.ListenersConfig, log *zap.Logger) error {
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, domain := range cfg.Disabled {
		disabled[domain] = true
	}

	for _, domain := range registry.Domains() {
		if disabled[domain] {
			log.Info("listener group disabled by configuration", zap.String("domain", domain))
			continue
		}
		if _, err := registry.Register(domain); err != nil {
			if cfg.FailFast {
				return err
			}
			log.Error("listener group failed to register, continuing without it",
				zap.String("domain", domain), zap.Error(err))
		}
	}
	return nil
}
