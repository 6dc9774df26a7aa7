package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/pkg/response"
)

// ApiListPlans handles GET /api/v1/plans?include_inactive=true
func ApiListPlans(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
		plans, err := svc.ListPlans(c.Request.Context(), includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

// ApiCreatePlan handles POST /api/v1/plans
func ApiCreatePlan(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membership.PlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		plan, err := svc.CreatePlan(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// ApiUpdatePlan handles PUT /api/v1/plans/:plan_id
func ApiUpdatePlan(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membership.PlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		plan, err := svc.UpdatePlan(c.Request.Context(), c.Param("plan_id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// ApiDeletePlan handles DELETE /api/v1/plans/:plan_id
func ApiDeletePlan(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeletePlan(c.Request.Context(), c.Param("plan_id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *membership.Service) {
	r.GET("/plans", ApiListPlans(svc))
	r.POST("/plans", ApiCreatePlan(svc))
	r.PUT("/plans/:plan_id", ApiUpdatePlan(svc))
	r.DELETE("/plans/:plan_id", ApiDeletePlan(svc))
}
