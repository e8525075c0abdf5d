package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ratehub/internal/delivery/http/response"
	"ratehub/internal/domain/entity"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RatingHandler holds dependencies for rating-related handlers.
type RatingHandler struct {
	uc     usecase.RatingUsecase
	logger *slog.Logger
}

// NewRatingHandler is the constructor for RatingHandler, injected by Fx.
func NewRatingHandler(uc usecase.RatingUsecase, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{
		uc:     uc,
		logger: logger,
	}
}

type submitRatingRequest struct {
	StoreID string `json:"storeId" validate:"required,uuid"`
	Value   int    `json:"value" validate:"required,min=1,max=5"`
}

type updateRatingRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// ratingView is the wire shape of a rating.
type ratingView struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	UserID    string    `json:"userId"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ratingResultView pairs a rating with the store's refreshed aggregates.
type ratingResultView struct {
	Rating       *ratingView `json:"rating"`
	AvgRating    float64     `json:"avgRating"`
	TotalRatings int64       `json:"totalRatings"`
}

func toRatingView(rating *entity.Rating) *ratingView {
	if rating == nil {
		return nil
	}

	return &ratingView{
		ID:        rating.ID.String(),
		StoreID:   rating.StoreID.String(),
		UserID:    rating.UserID.String(),
		Value:     rating.Value,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func toRatingResultView(output *usecase.RatingOutput) *ratingResultView {
	return &ratingResultView{
		Rating:       toRatingView(output.Rating),
		AvgRating:    output.AvgRating,
		TotalRatings: output.TotalRatings,
	}
}

// SubmitRating handles a user's first rating of a store.
func (h *RatingHandler) SubmitRating(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid storeId format")
	}

	output, err := h.uc.SubmitRating(c.Request().Context(), p, &usecase.SubmitRatingInput{
		StoreID: storeID,
		Value:   req.Value,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toRatingResultView(output), "Rating submitted successfully")
}

// UpdateRating handles a rating revision by its author.
func (h *RatingHandler) UpdateRating(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	ratingID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rating input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.UpdateRating(c.Request().Context(), p, &usecase.UpdateRatingInput{
		RatingID: ratingID,
		Value:    req.Value,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatingResultView(output), "Rating updated successfully")
}

// ListStoreRatings handles the rating listing for a store.
func (h *RatingHandler) ListStoreRatings(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	storeID, err := pathUUID(c, "storeId")
	if err != nil {
		return err
	}

	ratings, err := h.uc.ListStoreRatings(c.Request().Context(), p, storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*ratingView, 0, len(ratings))
	for _, rating := range ratings {
		views = append(views, toRatingView(rating))
	}

	return response.Success(c, http.StatusOK, views, "")
}

// RecomputeStoreStats handles the admin repair path for one store's aggregates.
func (h *RatingHandler) RecomputeStoreStats(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	storeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.uc.RecomputeStoreStats(c.Request().Context(), p, storeID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"storeId":      result.StoreID.String(),
		"avgRating":    result.AvgRating,
		"totalRatings": result.TotalRatings,
	}, "Store stats recomputed")
}

// RecomputeAllStoreStats handles the admin repair path for every store.
func (h *RatingHandler) RecomputeAllStoreStats(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	results, err := h.uc.RecomputeAllStoreStats(c.Request().Context(), p)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]map[string]any, 0, len(results))
	for _, result := range results {
		view := map[string]any{
			"storeId":      result.StoreID.String(),
			"avgRating":    result.AvgRating,
			"totalRatings": result.TotalRatings,
		}
		if result.Err != nil {
			view["error"] = result.Err.Error()
		}
		views = append(views, view)
	}

	return response.Success(c, http.StatusOK, views, "Store stats recompute finished")
}
