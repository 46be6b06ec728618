package controllers

import (
	"foodorder/pkg/resp"
	"foodorder/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Svc *services.MealService
}

func NewMealController(s *services.MealService) *MealController {
	return &MealController{Svc: s}
}

// GET /meals
func (ctl *MealController) List(c *gin.Context) {
	meals, err := ctl.Svc.List(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"meals": meals})
}

// GET /meals/:id
func (ctl *MealController) Get(c *gin.Context) {
	meal, err := ctl.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, meal)
}

// POST /meals
func (ctl *MealController) Create(c *gin.Context) {
	var req services.CreateMealIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	meal, err := ctl.Svc.Create(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, meal)
}

// PUT /meals/:id
func (ctl *MealController) Update(c *gin.Context) {
	var req services.UpdateMealIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	meal, err := ctl.Svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, meal)
}

// DELETE /meals/:id
func (ctl *MealController) Delete(c *gin.Context) {
	if err := ctl.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "meal removed successfully"})
}
