package main

import (
	"camphub/src/types"
	"camphub/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func publicReviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/campsites/:id/reviews", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			reviews, err := utils.ListReviews(id)
			if err != nil {
				respondError(ctx, "ListReviews", err)
				return
			}
			respondList(ctx, reviews)
		}).
		GET("/campsites/:id/comments", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			comments, err := utils.ListComments(id)
			if err != nil {
				respondError(ctx, "ListComments", err)
				return
			}
			respondList(ctx, comments)
		})
	return g
}

func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/campsites/:id/reviews", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateReviewRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			review, err := utils.CreateReview(userID, id, &body)
			if err != nil {
				respondError(ctx, "CreateReview", err)
				return
			}
			respondData(ctx, http.StatusCreated, review)
		}).
		DELETE("/reviews/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := utils.DeleteReview(userID, id); err != nil {
				respondError(ctx, "DeleteReview", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "review deleted"})
		}).
		POST("/campsites/:id/comments", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateCommentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			comment, err := utils.CreateComment(userID, id, &body)
			if err != nil {
				respondError(ctx, "CreateComment", err)
				return
			}
			respondData(ctx, http.StatusCreated, comment)
		}).
		DELETE("/comments/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := utils.DeleteComment(userID, id); err != nil {
				respondError(ctx, "DeleteComment", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "comment deleted"})
		})
	return g
}

func favoriteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/favorites", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			favorites, err := utils.ListFavorites(userID)
			if err != nil {
				respondError(ctx, "ListFavorites", err)
				return
			}
			respondList(ctx, favorites)
		}).
		POST("/campsites/:id/favorite", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			favorited, err := utils.ToggleFavorite(userID, id)
			if err != nil {
				respondError(ctx, "ToggleFavorite", err)
				return
			}
			respondData(ctx, http.StatusOK, gin.H{"campsite_id": id, "favorited": favorited})
		})
	return g
}
