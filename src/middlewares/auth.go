package middlewares

import (
	"camphub/src/types"
	"camphub/src/utils"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func unauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.ActionResult{Success: false, Error: utils.ErrAuthRequired.Error()})
}

// AuthMiddleware accepts the hosted provider's HS256 access token. The
// subject is the profile id.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	reqToken, ok := strings.CutPrefix(bearerToken, "Bearer ")
	if !ok || reqToken == "" {
		unauthorized(ctx)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey(), nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		unauthorized(ctx)
		return
	}
	if !tkn.Valid {
		unauthorized(ctx)
		return
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		unauthorized(ctx)
		return
	}
	profile, err := utils.EnsureProfile(uid, claims.Email)
	if err != nil {
		log.Printf("[Auth] could not load profile %s: %s\n", uid, err.Error())
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, types.ActionResult{Success: false, Error: "something went wrong"})
		return
	}
	ctx.Set("id", profile.ID.String())
	ctx.Set("email", profile.Email)
	ctx.Set("role", profile.Role)
}

// CurrentUserID reads the id stored by AuthMiddleware.
func CurrentUserID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.GetString("id"))
	if err != nil {
		return uuid.Nil, utils.ErrAuthRequired
	}
	return id, nil
}
