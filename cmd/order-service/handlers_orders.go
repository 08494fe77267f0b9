package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/foodorders/internal/httpx"
	"github.com/MikeMC777/foodorders/internal/notify"
	"github.com/MikeMC777/foodorders/internal/order"
)

// POST /api/customer/orders
func createDirectOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.DirectRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := orders.CreateDirect(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusCreated, o)
	}
}

// GET /api/customer/orders?page=&limit=&status=&from=&to=
func listCustomerOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q order.ListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			httpx.Fail(c, err)
			return
		}
		page, err := orders.ListForCustomer(c.Request.Context(), httpx.CurrentUser(c).ID, q)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, page)
	}
}

// GET /api/customer/orders/:orderId
func getCustomerOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.GetForCustomer(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("orderId"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, o)
	}
}

// GET /api/customer/orders/:orderId/track
func trackOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := orders.Track(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("orderId"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, v)
	}
}

// GET /api/customer/orders/:orderId/track/ws
// The first frame is the tracking view, then one frame per status change.
func trackOrderStreamHandler(orders *order.Service, hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")
		events, unsubscribe := hub.Subscribe(orderID)
		defer unsubscribe()
		v, err := orders.Track(c.Request.Context(), httpx.CurrentUser(c).ID, orderID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if err := hub.Serve(c.Writer, c.Request, events, v); err != nil {
			rid, _ := c.Get("rid")
			log.Printf("[http] rid=%v track stream order=%s: %v", rid, orderID, err)
		}
	}
}

// GET /api/restaurant/orders
func listRestaurantOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q order.ListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			httpx.Fail(c, err)
			return
		}
		page, err := orders.ListForRestaurant(c.Request.Context(), httpx.CurrentUser(c).ID, q)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, page)
	}
}

// GET /api/restaurant/orders/:orderId
func getRestaurantOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.GetForOwner(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("orderId"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, o)
	}
}

// PATCH /api/restaurant/orders/:orderId/status
func updateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.StatusUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := orders.UpdateStatusForOwner(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("orderId"), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, o)
	}
}
