package routes

import (
	"net/http"

	"foodorder/controllers"
	"foodorder/middlewares"
	"foodorder/services"
	"foodorder/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Auth        *services.AuthService
	Meals       *services.MealService
	Carts       *services.CartService
	Orders      *services.OrderService
	Hub         *ws.OrderHub // nil disables /ws/orders
	CORSOrigins []string
	Log         *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.Recovery(d.Log), middlewares.RequestLogger(d.Log))
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	authCtrl := controllers.NewAuthController(d.Auth)
	mealCtrl := controllers.NewMealController(d.Meals)
	cartCtrl := controllers.NewCartController(d.Carts)
	orderCtrl := controllers.NewOrderController(d.Orders)

	protect := middlewares.AuthMiddleware(d.Auth)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/me", protect, authCtrl.Me)
	}

	// Meals: reads are public, writes need a login
	m := r.Group("/meals")
	{
		m.GET("", mealCtrl.List)
		m.GET("/:id", mealCtrl.Get)
		m.POST("", protect, mealCtrl.Create)
		m.PUT("/:id", protect, mealCtrl.Update)
		m.DELETE("/:id", protect, mealCtrl.Delete)
	}

	cart := r.Group("/cart", protect)
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/items", cartCtrl.Add)
		cart.DELETE("/items/:mealId", cartCtrl.RemoveItem)
		cart.DELETE("", cartCtrl.Clear)
	}

	orders := r.Group("/orders", protect)
	{
		orders.POST("", orderCtrl.Create)
		orders.GET("", orderCtrl.ListForMe)
		orders.GET("/:id", orderCtrl.Detail)
	}

	if d.Hub != nil {
		r.GET("/ws/orders", middlewares.WSAuthMiddleware(d.Auth), d.Hub.HandleWebSocket)
	}
}
