package main

import (
	"camphub/src/middlewares"
	"camphub/src/types"
	"camphub/src/utils"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const somethingWentWrong = "something went wrong"

func statusForError(err error) int {
	switch {
	case errors.Is(err, utils.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, utils.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError answers with the error envelope. Upstream failures are logged
// and replaced with a generic message.
func respondError(ctx *gin.Context, tag string, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[%s] error: %s\n", tag, err.Error())
		msg = somethingWentWrong
	}
	ctx.JSON(status, types.ActionResult{Success: false, Error: msg})
}

func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, types.ActionResult{Success: false, Error: err.Error()})
}

func respondData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, types.ActionResult{Success: true, Data: data})
}

func respondList[T any](ctx *gin.Context, items []T) {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	ctx.JSON(http.StatusOK, types.ActionResult{Success: true, Data: items, Count: &count})
}

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middlewares.CurrentUserID(ctx)
	if err != nil {
		respondError(ctx, "Auth", err)
		return uuid.Nil, false
	}
	return id, true
}

func bindID(ctx *gin.Context) (uint, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		respondBindError(ctx, err)
		return 0, false
	}
	return params.ID, true
}

// readUpload opens the multipart file in field. The caller closes it.
func readUpload(ctx *gin.Context, field string) (*utils.FileUpload, func(), error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return nil, nil, &utils.ActionError{Kind: utils.ErrValidation, Message: fmt.Sprintf("%s file is required", field)}
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &utils.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

func optionalUint(value string) (*uint, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, &utils.ActionError{Kind: utils.ErrValidation, Message: fmt.Sprintf("invalid id %q", value)}
	}
	id := uint(n)
	return &id, nil
}
