package main

import (
	"camphub/src/types"
	"camphub/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/me", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			profile, err := utils.GetProfile(userID)
			if err != nil {
				respondError(ctx, "GetProfile", err)
				return
			}
			respondData(ctx, http.StatusOK, profile)
		}).
		PUT("/me", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			profile, err := utils.UpdateProfile(userID, &body)
			if err != nil {
				respondError(ctx, "UpdateProfile", err)
				return
			}
			respondData(ctx, http.StatusOK, profile)
		})
	return g
}

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			notifications, err := utils.ListNotifications(userID, ctx.Query("unread") == "true")
			if err != nil {
				respondError(ctx, "ListNotifications", err)
				return
			}
			respondList(ctx, notifications)
		}).
		PUT("/notifications", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			n, err := utils.MarkAllNotificationsRead(userID)
			if err != nil {
				respondError(ctx, "MarkAllNotificationsRead", err)
				return
			}
			respondData(ctx, http.StatusOK, gin.H{"updated": n})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.NotificationRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBindError(ctx, err)
				return
			}
			if err := utils.MarkNotificationRead(userID, uuid.MustParse(params.ID)); err != nil {
				respondError(ctx, "MarkNotificationRead", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "notification marked as read"})
		})
	return g
}
