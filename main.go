package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/api"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/api/handler"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/api/middleware"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/config"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository/postgresql"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	defer db.Close()
	log.Println("Đã kết nối database thành công!")

	store := postgresql.NewStore(db)

	// 3. Khởi tạo hub websocket
	hub := handler.NewHub()
	go hub.Run()
	log.Println("Hub websocket đã được khởi động.")

	// 4. Initialize Services
	authService := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTExpirationHours)
	parkingService := service.NewParkingService(store, hub, cfg.DefaultPricePerHour)
	priceService := service.NewPriceService(store)
	staffService := service.NewStaffService(store)
	customerService := service.NewCustomerService(store)
	reportService := service.NewReportService(store)

	// 5. Initialize Auth Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 6. Background job quét lượt gửi xe quá hạn
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	overdueNotifier := service.NewOverdueNotifier(store, hub, cfg.OverdueThreshold, cfg.OverdueScanInterval)
	go overdueNotifier.Run(jobCtx)

	// 7. Setup HTTP Router
	hubHandler := handler.NewHubHandler(hub, parkingService, authService)
	router := api.SetupRouter(authService, parkingService, priceService, staffService,
		customerService, reportService, authMiddleware, hubHandler)

	// 8. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	cancelJobs()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server buộc phải tắt: %v", err)
	}

	log.Println("Server đã tắt.")
}
