package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/httpx"
	"github.com/MikeMC777/foodorders/internal/order"
)

// GET /api/cart
func getCartHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := carts.View(c.Request.Context(), httpx.CurrentUser(c).ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, v)
	}
}

// POST /api/cart
func addCartItemHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.AddItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		qty := 1
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		v, err := carts.AddItem(c.Request.Context(), httpx.CurrentUser(c).ID, in.ItemID, qty, in.SpecialInstructions)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, v)
	}
}

// PUT /api/cart/:itemId
func updateCartItemHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cart.UpdateItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		v, err := carts.UpdateQuantity(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("itemId"), in.Quantity)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, v)
	}
}

// DELETE /api/cart/:itemId
func removeCartItemHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := carts.RemoveItem(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("itemId"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, v)
	}
}

// DELETE /api/cart
func clearCartHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), httpx.CurrentUser(c).ID); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, cart.EmptyView())
	}
}

// POST /api/cart/checkout
func checkoutHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CheckoutRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := orders.CreateFromCart(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusCreated, o)
	}
}
