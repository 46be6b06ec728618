package controllers

import (
	"fmt"

	"foodorder/entity"
	"foodorder/pkg/resp"
	"foodorder/services"
	"foodorder/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Svc: s} }

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	cart, err := h.Svc.Get(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	var req services.AddToCartIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, fmt.Sprintf("mealId and a quantity between 1 and %d are required", entity.MaxLineQuantity))
		return
	}
	cart, err := h.Svc.AddItem(c.Request.Context(), utils.CurrentUserID(c), req.MealID, req.Quantity)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /cart/items/:mealId
func (h *CartController) RemoveItem(c *gin.Context) {
	cart, err := h.Svc.RemoveItem(c.Request.Context(), utils.CurrentUserID(c), c.Param("mealId"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	cart, err := h.Svc.Clear(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cart)
}
