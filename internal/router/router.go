package router

import (
	"github.com/moazalc/autostacks-app-sub001/internal/config"
	"github.com/moazalc/autostacks-app-sub001/internal/handler"
	"github.com/moazalc/autostacks-app-sub001/internal/ledger"
	"github.com/moazalc/autostacks-app-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the JSON API surface.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	// register/login do not require a session
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	ledgerService := ledger.NewService(db)

	entryHandler := handler.NewEntryHandler(ledgerService)
	protected.POST("/entries", entryHandler.CreateEntry)
	protected.GET("/entries", entryHandler.ListEntries)
	protected.PUT("/entries/:id", entryHandler.UpdateEntry)
	protected.DELETE("/entries/:id", entryHandler.DeleteEntry)

	balanceHandler := handler.NewBalanceHandler(ledgerService)
	protected.GET("/balances/:accountId", balanceHandler.GetBalance)

	carHandler := handler.NewCarHandler(db)
	protected.POST("/cars", carHandler.CreateCar)
	protected.GET("/cars", carHandler.ListCars)
	protected.PUT("/cars/:id", carHandler.UpdateCar)
	protected.DELETE("/cars/:id", carHandler.DeleteCar)

	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	auditHandler := handler.NewAuditHandler(db, cfg.App.PageSize)
	protected.GET("/audit", auditHandler.ListAudit)

	return r
}
