package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/gymcore/internal/app/service/statistics"
	"github.com/fatflowers/gymcore/pkg/response"
)

// ApiGetDashboard handles POST /api/v1/admin/dashboard. An empty body means this month.
func ApiGetDashboard(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.DashboardRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBadRequest(c, err)
			return
		}
		res, err := svc.Dashboard(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *statistics.Service) {
	r.POST("/dashboard", ApiGetDashboard(svc))
}
