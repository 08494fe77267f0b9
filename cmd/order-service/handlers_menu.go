package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/httpx"
)

// GET /api/restaurants/:restaurantId/menu
func publicMenuHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menus.Menu(c.Request.Context(), c.Param("restaurantId"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, items)
	}
}

// GET /api/restaurant
func getRestaurantHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := menus.OwnedRestaurant(c.Request.Context(), httpx.CurrentUser(c).ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, r)
	}
}

// POST /api/restaurant creates or updates the caller's restaurant.
func saveRestaurantHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.RestaurantRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		r, err := menus.SaveForOwner(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, r)
	}
}

// GET /api/restaurant/menu
func ownerMenuHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menus.OwnerMenu(c.Request.Context(), httpx.CurrentUser(c).ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, items)
	}
}

// POST /api/restaurant/menu
func addMenuItemHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		it, err := menus.AddItem(c.Request.Context(), httpx.CurrentUser(c).ID, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusCreated, it)
	}
}

// PUT /api/restaurant/menu/:itemId
func updateMenuItemHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ItemUpdateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, err)
			return
		}
		it, err := menus.UpdateItem(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("itemId"), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, it)
	}
}

// DELETE /api/restaurant/menu/:itemId
func deleteMenuItemHandler(menus *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := menus.DeleteItem(c.Request.Context(), httpx.CurrentUser(c).ID, c.Param("itemId")); err != nil {
			httpx.Fail(c, err)
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "menu item deleted"})
	}
}
