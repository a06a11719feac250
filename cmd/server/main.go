package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoswap/ecoswap/internal/app"
	"github.com/ecoswap/ecoswap/internal/app/handlers"
	"github.com/ecoswap/ecoswap/internal/app/middleware/ratelimit"
	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/config"
	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/lib/logger"
	"github.com/ecoswap/ecoswap/internal/lib/logger/handlers/urllog"
	"github.com/ecoswap/ecoswap/internal/service"
	"github.com/ecoswap/ecoswap/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

func main() {
	// .env подхватывается для локальной разработки, в проде переменные заданы окружением
	_ = godotenv.Load()

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	categoryRepo := storage.NewCategoryRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	reviewRepo := storage.NewReviewRepository(application.DB)
	requestRepo := storage.NewRequestRepository(application.DB)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	categoryService := service.NewCategoryService(application.Logger, categoryRepo)
	productService := service.NewProductService(application.Logger, productRepo)
	orderService := service.NewOrderService(application.Logger, application.DB, productRepo, orderRepo)
	reviewService := service.NewReviewService(application.Logger, reviewRepo, productRepo)
	requestService := service.NewRequestService(application.Logger, requestRepo, userRepo)
	sellerService := service.NewSellerService(application.Logger, orderRepo, requestRepo)
	adminService := service.NewAdminService(application.Logger, userRepo, productRepo, orderRepo, requestRepo)

	// жесткий лимит на аутентификацию, общий - на остальное API
	authLimiter := ratelimit.New(rate.Limit(2), 5)
	apiLimiter := ratelimit.New(rate.Limit(10), 20)

	// публичные эндпоинты
	router.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
		r.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	})

	router.Group(func(r chi.Router) {
		r.Use(apiLimiter.Middleware)

		// каталог доступен без токена
		r.Get("/api/products", handlers.ListProductsHandler(application.Logger, productService))
		r.Get("/api/products/{id}", handlers.GetProductHandler(application.Logger, productService))
		r.Get("/api/products/{id}/reviews", handlers.ProductReviewsHandler(application.Logger, reviewService))
		r.Get("/api/categories", handlers.ListCategoriesHandler(application.Logger, categoryService))

		// все остальное требует валидного токена и активного аккаунта
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.New(application.Logger, userRepo))

			// эндпоинты покупателя
			r.Group(func(r chi.Router) {
				r.Use(authmiddleware.RequireUserType(models.UserTypeBuyer))
				r.Post("/api/orders", handlers.CheckoutHandler(application.Logger, orderService))
				r.Get("/api/orders/buyer", handlers.BuyerOrdersHandler(application.Logger, orderService))
				r.Post("/api/reviews", handlers.CreateReviewHandler(application.Logger, reviewService))
				r.Post("/api/requests/create", handlers.CreateRequestHandler(application.Logger, requestService))
				r.Get("/api/requests/buyer", handlers.BuyerRequestsHandler(application.Logger, requestService))
				r.Delete("/api/requests/{id}", handlers.DeleteRequestHandler(application.Logger, requestService))
			})

			// эндпоинты продавца
			r.Group(func(r chi.Router) {
				r.Use(authmiddleware.RequireUserType(models.UserTypeSeller))
				r.Post("/api/products", handlers.CreateProductHandler(application.Logger, productService))
				r.Put("/api/products/{id}", handlers.UpdateProductHandler(application.Logger, productService))
				r.Delete("/api/products/{id}", handlers.DeleteProductHandler(application.Logger, productService))
				r.Get("/api/seller/products", handlers.SellerProductsHandler(application.Logger, productService))
				r.Get("/api/seller/dashboard", handlers.SellerDashboardHandler(application.Logger, sellerService))
				r.Get("/api/orders/seller", handlers.SellerOrdersHandler(application.Logger, orderService))
				r.Put("/api/orders/items/{id}/status", handlers.OrderItemStatusHandler(application.Logger, orderService))
				r.Get("/api/requests/seller", handlers.SellerRequestsHandler(application.Logger, requestService))
				r.Put("/api/requests/{id}/status", handlers.RequestStatusHandler(application.Logger, requestService))
			})

			// эндпоинты админа
			r.Group(func(r chi.Router) {
				r.Use(authmiddleware.RequireUserType(models.UserTypeAdmin))
				r.Get("/api/admin/commission", handlers.CommissionHandler(application.Logger, adminService))
				r.Get("/api/admin/stats", handlers.StatsHandler(application.Logger, adminService))
				r.Get("/api/admin/users", handlers.ListUsersHandler(application.Logger, adminService))
				r.Put("/api/admin/users/{id}/active", handlers.UserActiveHandler(application.Logger, adminService))
				r.Post("/api/categories", handlers.CreateCategoryHandler(application.Logger, categoryService))
				r.Put("/api/categories/{id}", handlers.UpdateCategoryHandler(application.Logger, categoryService))
				r.Delete("/api/categories/{id}", handlers.DeleteCategoryHandler(application.Logger, categoryService))
			})
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
