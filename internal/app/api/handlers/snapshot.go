package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/gymcore/internal/app/service/snapshot"
	"github.com/fatflowers/gymcore/pkg/response"
)

// ApiGetMemberSnapshot handles GET /api/v1/users/:user_id/snapshot
func ApiGetMemberSnapshot(svc *snapshot.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.ComposeMemberSnapshot(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(snap))
	}
}

// ApiListMemberSnapshots handles GET /api/v1/snapshots
func ApiListMemberSnapshots(svc *snapshot.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListMemberSnapshots(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func RegisterSnapshotRoutes(r gin.IRouter, svc *snapshot.Service) {
	r.GET("/users/:user_id/snapshot", ApiGetMemberSnapshot(svc))
	r.GET("/snapshots", ApiListMemberSnapshots(svc))
}
