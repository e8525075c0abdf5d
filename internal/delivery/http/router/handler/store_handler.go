package handler

import (
	"log/slog"
	"net/http"

	"ratehub/internal/delivery/http/response"
	"ratehub/internal/domain/entity"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StoreHandler holds dependencies for store-related handlers.
type StoreHandler struct {
	uc     usecase.StoreUsecase
	logger *slog.Logger
}

// NewStoreHandler is the constructor for StoreHandler, injected by Fx.
func NewStoreHandler(uc usecase.StoreUsecase, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		uc:     uc,
		logger: logger,
	}
}

type createStoreRequest struct {
	Name    string `json:"name" validate:"required,min=3,max=60"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=400"`
	OwnerID string `json:"ownerId" validate:"required,uuid"`
}

type resolveStoreQRRequest struct {
	QRData string `json:"qrData" validate:"required"`
}

type updateStoreRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=60"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=400"`
	OwnerID *string `json:"ownerId" validate:"omitempty,uuid"`
}

// storeView is the wire shape of a store, aggregates included.
type storeView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Address      string  `json:"address"`
	OwnerID      string  `json:"ownerId"`
	AvgRating    float64 `json:"avgRating"`
	TotalRatings int64   `json:"totalRatings"`
}

func toStoreView(store *entity.Store) *storeView {
	if store == nil {
		return nil
	}

	return &storeView{
		ID:           store.ID.String(),
		Name:         store.Name,
		Email:        store.Email,
		Address:      store.Address,
		OwnerID:      store.OwnerID.String(),
		AvgRating:    store.AvgRating,
		TotalRatings: store.TotalRatings,
	}
}

func toStoreViews(stores []*entity.Store) []*storeView {
	views := make([]*storeView, 0, len(stores))
	for _, store := range stores {
		views = append(views, toStoreView(store))
	}

	return views
}

// ListStores handles the store listing with optional name/address filters.
func (h *StoreHandler) ListStores(c echo.Context) error {
	stores, err := h.uc.ListStores(c.Request().Context(), &usecase.ListStoresInput{
		Name:    c.QueryParam("name"),
		Address: c.QueryParam("address"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreViews(stores), "")
}

// GetStore handles the single-store lookup.
func (h *StoreHandler) GetStore(c echo.Context) error {
	storeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	store, err := h.uc.GetStore(c.Request().Context(), storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreView(store), "")
}

// GetStoreByOwner handles the owner-to-store lookup used by owner dashboards.
func (h *StoreHandler) GetStoreByOwner(c echo.Context) error {
	ownerID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	store, err := h.uc.GetStoreByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreView(store), "")
}

// GetStoreQRCode renders the store's QR code as a PNG image.
func (h *StoreHandler) GetStoreQRCode(c echo.Context) error {
	storeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.StoreQRCode(c.Request().Context(), storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ResolveStoreQR looks up the store a scanned QR payload points at.
func (h *StoreHandler) ResolveStoreQR(c echo.Context) error {
	var req resolveStoreQRRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid QR input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	store, err := h.uc.ResolveStoreQR(c.Request().Context(), req.QRData)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreView(store), "")
}

// CreateStore handles admin store registration.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid ownerId format")
	}

	store, err := h.uc.CreateStore(c.Request().Context(), p, &usecase.CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: ownerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toStoreView(store), "Store created successfully")
}

// UpdateStore handles store updates by admins or the owning store owner.
func (h *StoreHandler) UpdateStore(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	storeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateStoreRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := &usecase.UpdateStoreInput{
		StoreID: storeID,
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	}
	if req.OwnerID != nil {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid ownerId format")
		}
		input.OwnerID = &ownerID
	}

	store, err := h.uc.UpdateStore(c.Request().Context(), p, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toStoreView(store), "Store updated successfully")
}

// DeleteStore handles admin store deletion.
func (h *StoreHandler) DeleteStore(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	storeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteStore(c.Request().Context(), p, storeID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Store deleted successfully")
}
