package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/gymcore/internal/app/service/access"
	"github.com/fatflowers/gymcore/pkg/response"
)

type CheckInRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type InsideResponse struct {
	UserID      string     `json:"user_id"`
	IsInside    bool       `json:"is_inside"`
	CheckInID   string     `json:"check_in_id,omitempty"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
}

// ApiCheckIn handles POST /api/v1/check_ins
func ApiCheckIn(svc *access.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		ci, err := svc.CheckIn(c.Request.Context(), req.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ci))
	}
}

// ApiCheckOut handles POST /api/v1/check_ins/:check_in_id/check_out
func ApiCheckOut(svc *access.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ci, err := svc.CheckOut(c.Request.Context(), c.Param("check_in_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ci))
	}
}

// ApiIsInside handles GET /api/v1/users/:user_id/inside
func ApiIsInside(svc *access.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		ci, err := svc.OpenSessionToday(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		res := &InsideResponse{UserID: userID}
		if ci != nil {
			res.IsInside = true
			res.CheckInID = ci.ID
			res.CheckInTime = &ci.CheckInTime
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// ApiGetOpenSession handles GET /api/v1/users/:user_id/open_session. Unlike inside, it also
// reports a session left open since an earlier day, so it can be checked out.
func ApiGetOpenSession(svc *access.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ci, err := svc.OpenSession(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ci))
	}
}

func RegisterAccessRoutes(r gin.IRouter, svc *access.Service) {
	r.POST("/check_ins", ApiCheckIn(svc))
	r.POST("/check_ins/:check_in_id/check_out", ApiCheckOut(svc))
	r.GET("/users/:user_id/inside", ApiIsInside(svc))
	r.GET("/users/:user_id/open_session", ApiGetOpenSession(svc))
}
