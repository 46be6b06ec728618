package controllers

import (
	"strconv"

	"foodorder/pkg/resp"
	"foodorder/services"
	"foodorder/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController { return &OrderController{Svc: s} }

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Svc.Create(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders?limit=
func (oc *OrderController) ListForMe(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := oc.Svc.ListForUser(c.Request.Context(), utils.CurrentUserID(c), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /orders/:id (owner only)
func (oc *OrderController) Detail(c *gin.Context) {
	o, err := oc.Svc.DetailForUser(c.Request.Context(), utils.CurrentUserID(c), c.Param("id"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, o)
}
