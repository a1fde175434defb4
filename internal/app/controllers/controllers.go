// Package controllers holds the HTTP handlers of the /api routes.
package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/middleware"
	"github.com/siprista/backend/internal/pkg/helpers"
)

// identity returns the authenticated identity or writes a 401 and returns false.
func identity(ctx *gin.Context) (authz.Identity, bool) {
	id, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, authz.ErrMissingIdentity)
		return authz.Identity{}, false
	}
	return id, true
}

// listQuery reads page, limit and search. Invalid numbers fall back to defaults.
func listQuery(ctx *gin.Context) dto.ListQuery {
	page, limit := helpers.ParsePaginationParams(ctx)
	return dto.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(ctx.Query("search")),
	}
}
