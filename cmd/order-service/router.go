package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/foodorders/docs"
	"github.com/MikeMC777/foodorders/internal/httpx"
	"github.com/MikeMC777/foodorders/internal/user"
)

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.CORS(a.cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	authed := httpx.Auth(a.tokens, a.users)
	customer := []gin.HandlerFunc{authed, httpx.RequireRole(user.RoleCustomer)}
	owner := []gin.HandlerFunc{authed, httpx.RequireRole(user.RoleRestaurantOwner)}

	ag := api.Group("/auth")
	ag.POST("/register", registerHandler(a.users, a.tokens))
	ag.POST("/login", loginHandler(a.users, a.tokens))
	ag.GET("/me", authed, meHandler())
	ag.PUT("/profile", authed, updateProfileHandler(a.users))
	ag.PUT("/change-password", authed, changePasswordHandler(a.users))

	api.GET("/restaurants/:restaurantId/menu", publicMenuHandler(a.menus))

	cg := api.Group("/cart", customer...)
	cg.GET("", getCartHandler(a.carts))
	cg.POST("", addCartItemHandler(a.carts))
	cg.DELETE("", clearCartHandler(a.carts))
	cg.POST("/checkout", checkoutHandler(a.orders))
	cg.PUT("/:itemId", updateCartItemHandler(a.carts))
	cg.DELETE("/:itemId", removeCartItemHandler(a.carts))

	custg := api.Group("/customer", customer...)
	custg.GET("/addresses", listAddressesHandler(a.users))
	custg.POST("/addresses", addAddressHandler(a.users))
	custg.PUT("/addresses/:addressId", updateAddressHandler(a.users))
	custg.DELETE("/addresses/:addressId", deleteAddressHandler(a.users))
	custg.POST("/orders", createDirectOrderHandler(a.orders))
	custg.GET("/orders", listCustomerOrdersHandler(a.orders))
	custg.GET("/orders/:orderId", getCustomerOrderHandler(a.orders))
	custg.GET("/orders/:orderId/track", trackOrderHandler(a.orders))
	custg.GET("/orders/:orderId/track/ws", trackOrderStreamHandler(a.orders, a.hub))

	rg := api.Group("/restaurant", owner...)
	rg.GET("", getRestaurantHandler(a.menus))
	rg.POST("", saveRestaurantHandler(a.menus))
	rg.GET("/menu", ownerMenuHandler(a.menus))
	rg.POST("/menu", addMenuItemHandler(a.menus))
	rg.PUT("/menu/:itemId", updateMenuItemHandler(a.menus))
	rg.DELETE("/menu/:itemId", deleteMenuItemHandler(a.menus))
	rg.GET("/orders", listRestaurantOrdersHandler(a.orders))
	rg.GET("/orders/:orderId", getRestaurantOrderHandler(a.orders))
	rg.PATCH("/orders/:orderId/status", updateOrderStatusHandler(a.orders))

	return r
}
