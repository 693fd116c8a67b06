package handlers

import (
	"net/http"

	"github.com/3w-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentClaims returns the verified JWT claims the auth middleware stored,
// or nil when the request is unauthenticated.
func currentClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

// currentUserID returns the authenticated user's ObjectID.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	claims := currentClaims(c)
	if claims == nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity in token")
	}
	return id, nil
}

// currentUsername returns the authenticated user's username.
func currentUsername(c echo.Context) string {
	if claims := currentClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// pathObjectID parses an ObjectID path parameter.
func pathObjectID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
