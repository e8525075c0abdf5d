package impl

import (
	"context"
	"log/slog"
	"math"
	"sync"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/authz"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// recomputeWorkers bounds the concurrency of a full recompute run so a large
// store catalog cannot exhaust the database connection pool.
const recomputeWorkers = 8

// ratingService implements the RatingUsecase interface.
//
// Every write path recomputes the target store's aggregates inside the same
// transaction as the rating mutation, under a per-store row lock. A reader
// therefore never observes a rating without its effect on avg_rating and
// total_ratings.
type ratingService struct {
	txManager  repository.TransactionManager
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	logger     *slog.Logger
}

// RatingServiceParams holds dependencies for ratingService, injected by Fx.
type RatingServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	StoreRepo  repository.StoreRepository
	RatingRepo repository.RatingRepository
	Logger     *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(params RatingServiceParams) usecase.RatingUsecase {
	return &ratingService{
		txManager:  params.TxManager,
		storeRepo:  params.StoreRepo,
		ratingRepo: params.RatingRepo,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitRating records a user's first rating of a store. Submitting twice for
// the same store is a conflict; the revision path is UpdateRating.
func (srv *ratingService) SubmitRating(ctx context.Context, principal entity.Principal, input *usecase.SubmitRatingInput) (*usecase.RatingOutput, error) {
	if !authz.CanSubmitRating(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only users may rate stores")
	}
	if !entity.ValidRatingValue(input.Value) {
		return nil, domainerrors.ErrRatingValueOutOfRange.WrapMessage("rating value outside 1..5")
	}

	var (
		rating *entity.Rating
		avg    float64
		total  int64
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		storeRepo := repoFactory.StoreRepo()
		ratingRepo := repoFactory.RatingRepo()

		// Lock first: the lock both proves the store exists and serializes
		// concurrent submissions against the same store.
		if err := storeRepo.AcquireAggregateMutex(ctx, input.StoreID); err != nil {
			if errors.Is(err, repository.ErrStoreNotFound) {
				return domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
			}

			return errors.Wrap(err, "failed to lock store for rating")
		}

		_, findErr := ratingRepo.FindByUserAndStore(ctx, principal.UserID, input.StoreID)
		if findErr == nil {
			return domainerrors.ErrAlreadyRated.WrapMessage("rating already exists for this store")
		}
		if !errors.Is(findErr, repository.ErrRatingNotFound) {
			return errors.Wrap(findErr, "failed to check for existing rating")
		}

		newRating := &entity.Rating{
			StoreID: input.StoreID,
			UserID:  principal.UserID,
			Value:   input.Value,
		}
		if err := ratingRepo.Create(ctx, newRating); err != nil {
			return errors.Wrap(err, "failed to create rating")
		}

		var err error
		avg, total, err = srv.recomputeLocked(ctx, repoFactory, input.StoreID)
		if err != nil {
			return err
		}

		rating = newRating

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Rating submission failed", slog.Any("storeID", input.StoreID), slog.Any("userID", principal.UserID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Rating submitted", slog.Any("ratingID", rating.ID), slog.Any("storeID", input.StoreID))

	return &usecase.RatingOutput{Rating: rating, AvgRating: avg, TotalRatings: total}, nil
}

// UpdateRating revises an existing rating. Only the authoring user may revise
// it, and the store's aggregates are rebuilt in the same transaction.
func (srv *ratingService) UpdateRating(ctx context.Context, principal entity.Principal, input *usecase.UpdateRatingInput) (*usecase.RatingOutput, error) {
	if !entity.ValidRatingValue(input.Value) {
		return nil, domainerrors.ErrRatingValueOutOfRange.WrapMessage("rating value outside 1..5")
	}

	var (
		rating *entity.Rating
		avg    float64
		total  int64
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		storeRepo := repoFactory.StoreRepo()
		ratingRepo := repoFactory.RatingRepo()

		existing, err := ratingRepo.FindByID(ctx, input.RatingID)
		if err != nil {
			if errors.Is(err, repository.ErrRatingNotFound) {
				return domainerrors.ErrRatingNotFound.WrapMessage("rating does not exist")
			}

			return errors.Wrap(err, "failed to find rating by id")
		}

		if !authz.CanUpdateRating(principal, existing) {
			return domainerrors.ErrForbidden.WrapMessage("only the author may update a rating")
		}

		if err := storeRepo.AcquireAggregateMutex(ctx, existing.StoreID); err != nil {
			return errors.Wrap(err, "failed to lock store for rating update")
		}

		existing.Value = input.Value
		if err := ratingRepo.Update(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to update rating")
		}

		avg, total, err = srv.recomputeLocked(ctx, repoFactory, existing.StoreID)
		if err != nil {
			return err
		}

		rating = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Rating update failed", slog.Any("ratingID", input.RatingID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Rating updated", slog.Any("ratingID", rating.ID), slog.Any("storeID", rating.StoreID))

	return &usecase.RatingOutput{Rating: rating, AvgRating: avg, TotalRatings: total}, nil
}

// ListStoreRatings returns all ratings of a store, newest first. Admins may
// read any store's ratings, a store owner only their own store's.
func (srv *ratingService) ListStoreRatings(ctx context.Context, principal entity.Principal, storeID uuid.UUID) ([]*entity.Rating, error) {
	store, err := srv.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	if !authz.CanListStoreRatings(principal, store) {
		return nil, domainerrors.ErrForbidden.WrapMessage("not allowed to list this store's ratings")
	}

	ratings, err := srv.ratingRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store ratings")
	}

	return ratings, nil
}

// RecomputeStoreStats rebuilds one store's aggregates from its rating rows.
// It is the repair path for aggregates that drifted, e.g. after a user delete
// cascaded some ratings away.
func (srv *ratingService) RecomputeStoreStats(ctx context.Context, principal entity.Principal, storeID uuid.UUID) (*usecase.RecomputeResult, error) {
	if !authz.CanManageStores(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may recompute store stats")
	}

	result, err := srv.recomputeOne(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RecomputeAllStoreStats rebuilds aggregates for every store. Each store gets
// its own transaction so one failure cannot poison the rest; failures are
// reported per store in the result slice.
func (srv *ratingService) RecomputeAllStoreStats(ctx context.Context, principal entity.Principal) ([]*usecase.RecomputeResult, error) {
	if !authz.CanManageStores(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may recompute store stats")
	}

	stores, err := srv.storeRepo.List(ctx, repository.StoreFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores for recompute")
	}

	jobs := make(chan uuid.UUID)
	results := make(chan *usecase.RecomputeResult, len(stores))

	var wg sync.WaitGroup
	for range recomputeWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for storeID := range jobs {
				result, err := srv.recomputeOne(ctx, storeID)
				if err != nil {
					result = &usecase.RecomputeResult{StoreID: storeID, Err: err}
				}
				results <- result
			}
		}()
	}

	for _, store := range stores {
		jobs <- store.ID
	}
	close(jobs)
	wg.Wait()
	close(results)

	collected := make([]*usecase.RecomputeResult, 0, len(stores))
	failed := 0
	for result := range results {
		if result.Err != nil {
			failed++
		}
		collected = append(collected, result)
	}

	srv.log(ctx).Info("Store stats recompute finished", slog.Int("stores", len(stores)), slog.Int("failed", failed))

	return collected, nil
}

// recomputeOne rebuilds a single store's aggregates in its own transaction.
func (srv *ratingService) recomputeOne(ctx context.Context, storeID uuid.UUID) (*usecase.RecomputeResult, error) {
	result := &usecase.RecomputeResult{StoreID: storeID}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.StoreRepo().AcquireAggregateMutex(ctx, storeID); err != nil {
			if errors.Is(err, repository.ErrStoreNotFound) {
				return domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
			}

			return errors.Wrap(err, "failed to lock store for recompute")
		}

		avg, total, err := srv.recomputeLocked(ctx, repoFactory, storeID)
		if err != nil {
			return err
		}

		result.AvgRating = avg
		result.TotalRatings = total

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// recomputeLocked derives avg_rating/total_ratings from the store's rating
// rows and persists them. The caller must already hold the store's aggregate
// mutex within the surrounding transaction.
func (srv *ratingService) recomputeLocked(ctx context.Context, repoFactory repository.RepositoryFactory, storeID uuid.UUID) (float64, int64, error) {
	ratings, err := repoFactory.RatingRepo().FindByStore(ctx, storeID)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to load ratings for recompute")
	}

	total := int64(len(ratings))
	avg := 0.0
	if total > 0 {
		sum := 0
		for _, rating := range ratings {
			sum += rating.Value
		}
		avg = round2(float64(sum) / float64(total))
	}

	if err := repoFactory.StoreRepo().UpdateAggregates(ctx, storeID, avg, total); err != nil {
		return 0, 0, errors.Wrap(err, "failed to persist store aggregates")
	}

	return avg, total, nil
}

// round2 rounds half away from zero to two decimal places, so 2/3 becomes
// 0.67 and 3.125 becomes 3.13.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
