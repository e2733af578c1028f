package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	//.envはローカル開発用。本番は環境変数だけで動く。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Seller{},
		&model.Product{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStateHistory{},
		&model.Payment{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	sellerRepo := infraRepo.NewSellerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo)
	sellerUC := usecase.NewSellerUsecase(sellerRepo)
	productUC := usecase.NewProductUsecase(productRepo, sellerRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	sellerOrderUC := usecase.NewSellerOrderUsecase(txManager)

	//refresh cookie TTL（usecase側のrefreshtoken有効期限に合わせる）
	refreshTTL := 14 * 24 * time.Hour

	//Handler生成
	authH := handler.NewAuthHandler(authUC, refreshTTL)
	productH := handler.NewProductHandler(productUC)
	addressH := handler.NewAddressHandler(addressUC)
	orderH := handler.NewOrderHandler(orderUC)
	adminOrderH := handler.NewAdminOrderHandler(adminOrderUC)
	adminUserH := handler.NewAdminUserHandler(authUC)
	sellerH := handler.NewSellerHandler(sellerUC, productUC)
	sellerOrderH := handler.NewSellerOrderHandler(sellerOrderUC)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	addressH.RegisterRoutes(e, cfg, userRepo)
	orderH.RegisterRoutes(e, cfg, userRepo)
	adminOrderH.RegisterRoutes(e, cfg, userRepo)
	adminUserH.RegisterRoutes(e, cfg, userRepo)
	sellerH.RegisterRoutes(e, cfg, userRepo)
	sellerOrderH.RegisterRoutes(e, cfg, userRepo)

	if err := e.Start(":" + cfg.Port); err != nil {
		e.Logger.Fatal(err)
	}
}
