package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/response"
)

// ApiCreateMembership handles POST /api/v1/memberships
func ApiCreateMembership(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membership.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		m, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// ApiRenewMembership handles POST /api/v1/memberships/:membership_id/renew
func ApiRenewMembership(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membership.RenewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		m, err := svc.Renew(c.Request.Context(), c.Param("membership_id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

type membershipTransition func(ctx context.Context, membershipID string) (*models.Membership, error)

// apiTransition serves the body-less status changes: cancel, suspend and resume.
func apiTransition(fn membershipTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := fn(c.Request.Context(), c.Param("membership_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// ApiListUserMemberships handles GET /api/v1/users/:user_id/memberships
func ApiListUserMemberships(svc *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.History(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func RegisterMembershipRoutes(r gin.IRouter, svc *membership.Service) {
	r.POST("/memberships", ApiCreateMembership(svc))
	r.POST("/memberships/:membership_id/renew", ApiRenewMembership(svc))
	r.POST("/memberships/:membership_id/cancel", apiTransition(svc.Cancel))
	r.POST("/memberships/:membership_id/suspend", apiTransition(svc.Suspend))
	r.POST("/memberships/:membership_id/resume", apiTransition(svc.Resume))
	r.GET("/users/:user_id/memberships", ApiListUserMemberships(svc))
}
