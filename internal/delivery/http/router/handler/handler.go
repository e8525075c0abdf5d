// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// principal extracts the authenticated principal placed on the context by
// the auth middleware. Routes behind Authenticate always have one; a miss
// means a route was wired without the middleware.
func principal(c echo.Context) (entity.Principal, error) {
	p, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return entity.Principal{}, domainerrors.NewBaseError(
			http.StatusUnauthorized,
			"MISSING_PRINCIPAL",
			"Authentication required",
			"",
		)
	}

	return p, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " format")
	}

	return id, nil
}

// HealthCheck reports process liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
