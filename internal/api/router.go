package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/api/handler"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/api/middleware"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/service"
)

func SetupRouter(
	authService *service.AuthService,
	parkingService *service.ParkingService,
	priceService *service.PriceService,
	staffService *service.StaffService,
	customerService *service.CustomerService,
	reportService *service.ReportService,
	authMw *middleware.AuthMiddleware,
	hubHandler *handler.HubHandler,
) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// WebSocket endpoint — token tùy chọn qua query param, xác thực trong handler
	r.GET("/ws", hubHandler.HandleWS)

	authHandler := handler.NewAuthHandler(authService)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		slotH := handler.NewSlotHandler(parkingService)
		slotRoutes := v1.Group("/slots")
		{
			slotRoutes.GET("", slotH.GetAllSlots)
			slotRoutes.GET("/by-area", slotH.GetSlotsByArea)
			slotRoutes.GET("/overview", slotH.GetOverview)
			slotRoutes.GET("/available", slotH.GetAvailableSlots)
			slotRoutes.GET("/fee/:registration_id", slotH.CalculateFee)
			slotRoutes.GET("/:id", slotH.GetSlotByID)
			slotRoutes.PUT("/:id/status", authMw.AuthorizeRole(domain.RoleAdmin), slotH.UpdateSlotStatus)
			slotRoutes.POST("/register", slotH.RegisterParking)
			slotRoutes.POST("/checkout", slotH.CheckOut)

			slotRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), slotH.CreateSlot)
			slotRoutes.POST("/bulk", authMw.AuthorizeRole(domain.RoleAdmin), slotH.BulkCreateSlots)
			slotRoutes.POST("/bulk-delete", authMw.AuthorizeRole(domain.RoleAdmin), slotH.BulkDeleteSlots)
			slotRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), slotH.UpdateSlot)
			slotRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), slotH.DeleteSlot)
		}

		v1.GET("/registrations/open", slotH.GetOpenRegistrations)

		priceH := handler.NewPriceHandler(priceService)
		priceRoutes := v1.Group("/prices")
		{
			priceRoutes.GET("", priceH.GetPrices)
			priceRoutes.GET("/:id", priceH.GetPriceByID)
			priceRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), priceH.CreatePrice)
			priceRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), priceH.UpdatePrice)
			priceRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), priceH.DeletePrice)
		}

		staffH := handler.NewStaffHandler(staffService)
		staffRoutes := v1.Group("/staff", authMw.AuthorizeRole(domain.RoleAdmin))
		{
			staffRoutes.GET("", staffH.GetStaff)
			staffRoutes.GET("/:id", staffH.GetStaffByID)
			staffRoutes.PUT("/:id", staffH.UpdateStaff)
			staffRoutes.DELETE("/:id", staffH.DeleteStaff)
		}

		customerH := handler.NewCustomerHandler(customerService)
		customerRoutes := v1.Group("/customers")
		{
			customerRoutes.GET("/check-phone", slotH.CheckCustomerByPhone)
			customerRoutes.GET("", customerH.GetCustomers)
			customerRoutes.GET("/:id", customerH.GetCustomerByID)
			customerRoutes.GET("/:id/vehicles", customerH.GetCustomerVehicles)
			customerRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), customerH.DeleteCustomer)
		}

		reportH := handler.NewReportHandler(reportService)
		reportRoutes := v1.Group("/reports")
		{
			reportRoutes.POST("", reportH.CreateReport)
			reportRoutes.GET("", reportH.GetReports)
			reportRoutes.GET("/:id", reportH.GetReportByID)
			reportRoutes.GET("/:id/comments", reportH.GetComments)
			reportRoutes.POST("/:id/comments", reportH.AddComment)
			reportRoutes.PUT("/:id/assign", authMw.AuthorizeRole(domain.RoleAdmin, domain.RoleStaff), reportH.AssignReport)
			reportRoutes.PUT("/:id/resolve", authMw.AuthorizeRole(domain.RoleAdmin, domain.RoleStaff), reportH.ResolveReport)
			reportRoutes.PUT("/:id/rate", reportH.RateReport)
		}
	}

	return r
}
