package main

import (
	"camphub/src/types"
	"camphub/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func publicCampsiteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/campsites", func(ctx *gin.Context) {
			var filters types.CampsiteQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				respondBindError(ctx, err)
				return
			}
			filters.Owned = false
			campsites, err := utils.ListCampsites(uuid.Nil, &filters)
			if err != nil {
				respondError(ctx, "ListCampsites", err)
				return
			}
			respondList(ctx, campsites)
		}).
		GET("/campsites/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			campsite, err := utils.GetCampsite(id)
			if err != nil {
				respondError(ctx, "GetCampsite", err)
				return
			}
			respondData(ctx, http.StatusOK, campsite)
		}).
		GET("/campsites/:id/zones", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			zones, err := utils.ListZones(id)
			if err != nil {
				respondError(ctx, "ListZones", err)
				return
			}
			respondList(ctx, zones)
		}).
		GET("/campsites/:id/availability", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				respondBindError(ctx, err)
				return
			}
			result, err := utils.GetZoneAvailability(id, query.Zone, query.CheckIn, query.CheckOut)
			if err != nil {
				respondError(ctx, "CheckAvailability", err)
				return
			}
			respondData(ctx, http.StatusOK, result)
		})
	return g
}

func campsiteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/owner/campsites", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var filters types.CampsiteQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				respondBindError(ctx, err)
				return
			}
			filters.Owned = true
			campsites, err := utils.ListCampsites(userID, &filters)
			if err != nil {
				respondError(ctx, "ListOwnCampsites", err)
				return
			}
			respondList(ctx, campsites)
		}).
		POST("/campsites", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.CreateCampsiteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			campsite, err := utils.CreateCampsite(userID, &body)
			if err != nil {
				respondError(ctx, "CreateCampsite", err)
				return
			}
			respondData(ctx, http.StatusCreated, campsite)
		}).
		PUT("/campsites/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.UpdateCampsiteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			campsite, err := utils.UpdateCampsite(userID, id, &body)
			if err != nil {
				respondError(ctx, "UpdateCampsite", err)
				return
			}
			respondData(ctx, http.StatusOK, campsite)
		}).
		DELETE("/campsites/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := utils.DeleteCampsite(userID, id); err != nil {
				respondError(ctx, "DeleteCampsite", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "campsite deleted"})
		}).
		POST("/campsites/:id/images", func(ctx *gin.Context) {
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
				respondError(ctx, "AddCampsiteImage", err)
				return
			}
			defer closeFile()
			campsite, err := utils.AddCampsiteImage(ctx.Request.Context(), objectStorage, userID, id, file)
			if err != nil {
				respondError(ctx, "AddCampsiteImage", err)
				return
			}
			respondData(ctx, http.StatusCreated, campsite)
		}).
		DELETE("/campsites/:id/images", func(ctx *gin.Context) {
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
			campsite, err := utils.RemoveCampsiteImage(ctx.Request.Context(), objectStorage, userID, id, body.URL)
			if err != nil {
				respondError(ctx, "RemoveCampsiteImage", err)
				return
			}
			respondData(ctx, http.StatusOK, campsite)
		})
	return g
}

func zoneHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/campsites/:id/zones", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateZoneRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			zone, err := utils.CreateZone(userID, id, &body)
			if err != nil {
				respondError(ctx, "CreateZone", err)
				return
			}
			respondData(ctx, http.StatusCreated, zone)
		}).
		PUT("/campsites/:id/zones/:zoneId", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.ZoneRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBindError(ctx, err)
				return
			}
			var body types.UpdateZoneRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			zone, err := utils.UpdateZone(userID, params.ID, params.ZoneID, &body)
			if err != nil {
				respondError(ctx, "UpdateZone", err)
				return
			}
			respondData(ctx, http.StatusOK, zone)
		}).
		DELETE("/campsites/:id/zones/:zoneId", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.ZoneRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBindError(ctx, err)
				return
			}
			if err := utils.DeleteZone(userID, params.ID, params.ZoneID); err != nil {
				respondError(ctx, "DeleteZone", err)
				return
			}
			ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Message: "zone deleted"})
		}).
		POST("/campsites/:id/zones/:zoneId/images", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.ZoneRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBindError(ctx, err)
				return
			}
			file, closeFile, err := readUpload(ctx, "image")
			if err != nil {
				respondError(ctx, "AddZoneImage", err)
				return
			}
			defer closeFile()
			zone, err := utils.AddZoneImage(ctx.Request.Context(), objectStorage, userID, params.ID, params.ZoneID, file)
			if err != nil {
				respondError(ctx, "AddZoneImage", err)
				return
			}
			respondData(ctx, http.StatusCreated, zone)
		}).
		DELETE("/campsites/:id/zones/:zoneId/images", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var params types.ZoneRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				respondBindError(ctx, err)
				return
			}
			var body types.DeleteImageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			zone, err := utils.RemoveZoneImage(ctx.Request.Context(), objectStorage, userID, params.ID, params.ZoneID, body.URL)
			if err != nil {
				respondError(ctx, "RemoveZoneImage", err)
				return
			}
			respondData(ctx, http.StatusOK, zone)
		})
	return g
}
