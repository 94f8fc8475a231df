package main

import (
	"camphub/src/types"
	"camphub/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func publicEquipmentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/equipment", func(ctx *gin.Context) {
			campsiteID, err := optionalUint(ctx.Query("campsite_id"))
			if err != nil {
				respondError(ctx, "ListEquipment", err)
				return
			}
			items, err := utils.ListEquipment(campsiteID, nil)
			if err != nil {
				respondError(ctx, "ListEquipment", err)
				return
			}
			respondList(ctx, items)
		}).
		GET("/equipment/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			item, err := utils.GetEquipment(id)
			if err != nil {
				respondError(ctx, "GetEquipment", err)
				return
			}
			respondData(ctx, http.StatusOK, item)
		})
	return g
}

func equipmentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/owner/equipment", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			items, err := utils.ListEquipment(nil, &userID)
			if err != nil {
				respondError(ctx, "ListOwnEquipment", err)
				return
			}
			respondList(ctx, items)
		}).
		POST("/equipment", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.CreateEquipmentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			item, err := utils.CreateEquipment(userID, &body)
			if err != nil {
				respondError(ctx, "CreateEquipment", err)
				return
			}
			respondData(ctx, http.StatusCreated, item)
		}).
		PUT("/equipment/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateEquipmentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			item, err := utils.UpdateEquipment(userID, id, &body)
			if err != nil {
				respondError(ctx, "UpdateEquipment", err)
				return
			}
			respondData(ctx, http.StatusOK, item)
		}).
		DELETE("/equipment/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := utils.DeleteEquipment(userID, id); err != nil {
				respondError(ctx, "DeleteEquipment", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "equipment deleted"})
		}).
		POST("/equipment/:id/images", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			file, closeFile, err := readUpload(ctx, "image")
			if err != nil {
				respondError(ctx, "AddEquipmentImage", err)
				return
			}
			defer closeFile()
			item, err := utils.AddEquipmentImage(ctx.Request.Context(), objectStorage, userID, id, file)
			if err != nil {
				respondError(ctx, "AddEquipmentImage", err)
				return
			}
			respondData(ctx, http.StatusCreated, item)
		}).
		DELETE("/equipment/:id/images", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.DeleteImageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			item, err := utils.RemoveEquipmentImage(ctx.Request.Context(), objectStorage, userID, id, body.URL)
			if err != nil {
				respondError(ctx, "RemoveEquipmentImage", err)
				return
			}
			respondData(ctx, http.StatusOK, item)
		})
	return g
}
