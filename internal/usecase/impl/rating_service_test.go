package impl

import (
	"context"
	"testing"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	mockRepo "ratehub/internal/mocks/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ratingsWithValues(storeID uuid.UUID, values ...int) []*entity.Rating {
	ratings := make([]*entity.Rating, 0, len(values))
	for _, value := range values {
		ratings = append(ratings, &entity.Rating{
			ID:      uuid.New(),
			StoreID: storeID,
			UserID:  uuid.New(),
			Value:   value,
		})
	}

	return ratings
}

func TestRatingService_SubmitRating_ForbiddenRoles(t *testing.T) {
	service := NewRatingService(RatingServiceParams{
		TxManager:  mockRepo.NewMockTransactionManager(t),
		StoreRepo:  mockRepo.NewMockStoreRepository(t),
		RatingRepo: mockRepo.NewMockRatingRepository(t),
		Logger:     testLogger(),
	})

	input := &usecase.SubmitRatingInput{StoreID: uuid.New(), Value: 4}

	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleStoreOwner} {
		principal := entity.Principal{UserID: uuid.New(), Role: role}

		output, err := service.SubmitRating(context.Background(), principal, input)
		require.ErrorIs(t, err, domainerrors.ErrForbidden, "role %s", role)
		assert.Nil(t, output)
	}
}

func TestRatingService_SubmitRating_ValueOutOfRange(t *testing.T) {
	service := NewRatingService(RatingServiceParams{
		TxManager:  mockRepo.NewMockTransactionManager(t),
		StoreRepo:  mockRepo.NewMockStoreRepository(t),
		RatingRepo: mockRepo.NewMockRatingRepository(t),
		Logger:     testLogger(),
	})

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}

	for _, value := range []int{0, 6, -1} {
		output, err := service.SubmitRating(context.Background(), principal, &usecase.SubmitRatingInput{
			StoreID: uuid.New(),
			Value:   value,
		})
		require.ErrorIs(t, err, domainerrors.ErrRatingValueOutOfRange, "value %d", value)
		assert.Nil(t, output)
	}
}

func TestRatingService_SubmitRating_StoreNotFound(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	storeID := uuid.New()

	mockStoreRepo.EXPECT().
		AcquireAggregateMutex(ctx, storeID).
		Return(repository.ErrStoreNotFound)

	output, err := service.SubmitRating(ctx, principal, &usecase.SubmitRatingInput{StoreID: storeID, Value: 3})
	require.ErrorIs(t, err, domainerrors.ErrStoreNotFound)
	assert.Nil(t, output)
}

func TestRatingService_SubmitRating_AlreadyRated(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	storeID := uuid.New()

	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeID).Return(nil)
	mockRatingRepo.EXPECT().
		FindByUserAndStore(ctx, principal.UserID, storeID).
		Return(&entity.Rating{ID: uuid.New(), StoreID: storeID, UserID: principal.UserID, Value: 4}, nil)

	output, err := service.SubmitRating(ctx, principal, &usecase.SubmitRatingInput{StoreID: storeID, Value: 2})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyRated)
	assert.Nil(t, output)
}

func TestRatingService_SubmitRating_RecomputesAggregates(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	storeID := uuid.New()

	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeID).Return(nil)
	mockRatingRepo.EXPECT().
		FindByUserAndStore(ctx, principal.UserID, storeID).
		Return(nil, repository.ErrRatingNotFound)
	mockRatingRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Rating")).
		Return(nil)
	// The freshly created rating is part of the recompute input.
	mockRatingRepo.EXPECT().
		FindByStore(ctx, storeID).
		Return(ratingsWithValues(storeID, 3, 4, 5), nil)
	mockStoreRepo.EXPECT().
		UpdateAggregates(ctx, storeID, 4.0, int64(3)).
		Return(nil)

	output, err := service.SubmitRating(ctx, principal, &usecase.SubmitRatingInput{StoreID: storeID, Value: 5})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, 4.0, output.AvgRating)
	assert.Equal(t, int64(3), output.TotalRatings)
	assert.Equal(t, 5, output.Rating.Value)
	assert.Equal(t, principal.UserID, output.Rating.UserID)
}

func TestRatingService_UpdateRating_RecomputesAggregates(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	storeID := uuid.New()
	ratingID := uuid.New()

	existing := &entity.Rating{ID: ratingID, StoreID: storeID, UserID: principal.UserID, Value: 5}

	mockRatingRepo.EXPECT().FindByID(ctx, ratingID).Return(existing, nil)
	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeID).Return(nil)
	mockRatingRepo.EXPECT().Update(ctx, existing).Return(nil)
	mockRatingRepo.EXPECT().
		FindByStore(ctx, storeID).
		Return(ratingsWithValues(storeID, 5, 2), nil)
	mockStoreRepo.EXPECT().
		UpdateAggregates(ctx, storeID, 3.5, int64(2)).
		Return(nil)

	output, err := service.UpdateRating(ctx, principal, &usecase.UpdateRatingInput{RatingID: ratingID, Value: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Rating.Value)
	assert.Equal(t, 3.5, output.AvgRating)
	assert.Equal(t, int64(2), output.TotalRatings)
}

func TestRatingService_UpdateRating_OnlyAuthorMayUpdate(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	ratingID := uuid.New()

	mockRatingRepo.EXPECT().
		FindByID(ctx, ratingID).
		Return(&entity.Rating{ID: ratingID, StoreID: uuid.New(), UserID: uuid.New(), Value: 3}, nil)

	output, err := service.UpdateRating(ctx, principal, &usecase.UpdateRatingInput{RatingID: ratingID, Value: 1})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Nil(t, output)
}

func TestRatingService_UpdateRating_NotFound(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}
	ratingID := uuid.New()

	mockRatingRepo.EXPECT().
		FindByID(ctx, ratingID).
		Return(nil, repository.ErrRatingNotFound)

	output, err := service.UpdateRating(ctx, principal, &usecase.UpdateRatingInput{RatingID: ratingID, Value: 3})
	require.ErrorIs(t, err, domainerrors.ErrRatingNotFound)
	assert.Nil(t, output)
}

func TestRatingService_ListStoreRatings_OwnerOfAnotherStoreForbidden(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)

	service := NewRatingService(RatingServiceParams{
		TxManager:  mockRepo.NewMockTransactionManager(t),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleStoreOwner}

	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(&entity.Store{ID: storeID, OwnerID: uuid.New()}, nil)

	ratings, err := service.ListStoreRatings(ctx, principal, storeID)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Nil(t, ratings)
}

func TestRatingService_ListStoreRatings_OwnerReadsOwnStore(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)

	service := NewRatingService(RatingServiceParams{
		TxManager:  mockRepo.NewMockTransactionManager(t),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()
	ownerID := uuid.New()
	principal := entity.Principal{UserID: ownerID, Role: entity.RoleStoreOwner}

	expected := ratingsWithValues(storeID, 5, 1)

	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(&entity.Store{ID: storeID, OwnerID: ownerID}, nil)
	mockRatingRepo.EXPECT().FindByStore(ctx, storeID).Return(expected, nil)

	ratings, err := service.ListStoreRatings(ctx, principal, storeID)
	require.NoError(t, err)
	assert.Equal(t, expected, ratings)
}

func TestRatingService_RecomputeStoreStats_RoundsHalfAwayFromZero(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	storeID := uuid.New()

	// 5/3 = 1.666... rounds up to 1.67.
	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeID).Return(nil)
	mockRatingRepo.EXPECT().
		FindByStore(ctx, storeID).
		Return(ratingsWithValues(storeID, 1, 1, 3), nil)
	mockStoreRepo.EXPECT().
		UpdateAggregates(ctx, storeID, 1.67, int64(3)).
		Return(nil)

	result, err := service.RecomputeStoreStats(ctx, admin, storeID)
	require.NoError(t, err)
	assert.Equal(t, 1.67, result.AvgRating)
	assert.Equal(t, int64(3), result.TotalRatings)
}

func TestRatingService_RecomputeStoreStats_EmptyStoreResetsToZero(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	storeID := uuid.New()

	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeID).Return(nil)
	mockRatingRepo.EXPECT().
		FindByStore(ctx, storeID).
		Return([]*entity.Rating{}, nil)
	mockStoreRepo.EXPECT().
		UpdateAggregates(ctx, storeID, 0.0, int64(0)).
		Return(nil)

	result, err := service.RecomputeStoreStats(ctx, admin, storeID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AvgRating)
	assert.Equal(t, int64(0), result.TotalRatings)
}

func TestRatingService_RecomputeStoreStats_ForbiddenForRegularUser(t *testing.T) {
	service := NewRatingService(RatingServiceParams{
		TxManager:  mockRepo.NewMockTransactionManager(t),
		StoreRepo:  mockRepo.NewMockStoreRepository(t),
		RatingRepo: mockRepo.NewMockRatingRepository(t),
		Logger:     testLogger(),
	})

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleUser}

	result, err := service.RecomputeStoreStats(context.Background(), principal, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Nil(t, result)
}

func TestRatingService_RecomputeAllStoreStats_ReportsPerStoreResults(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockRatingRepo := mockRepo.NewMockRatingRepository(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)
	mockFactory.EXPECT().RatingRepo().Return(mockRatingRepo)

	service := NewRatingService(RatingServiceParams{
		TxManager:  passthroughTxManager(t, mockFactory),
		StoreRepo:  mockStoreRepo,
		RatingRepo: mockRatingRepo,
		Logger:     testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	storeA := uuid.New()
	storeB := uuid.New()

	mockStoreRepo.EXPECT().
		List(ctx, repository.StoreFilter{}).
		Return([]*entity.Store{{ID: storeA}, {ID: storeB}}, nil)

	mockStoreRepo.EXPECT().AcquireAggregateMutex(ctx, storeA).Return(nil)
	mockRatingRepo.EXPECT().
		FindByStore(ctx, storeA).
		Return(ratingsWithValues(storeA, 4, 4), nil)
	mockStoreRepo.EXPECT().
		UpdateAggregates(ctx, storeA, 4.0, int64(2)).
		Return(nil)

	// The missing store fails alone, without poisoning the run.
	mockStoreRepo.EXPECT().
		AcquireAggregateMutex(ctx, storeB).
		Return(repository.ErrStoreNotFound)

	results, err := service.RecomputeAllStoreStats(ctx, admin)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byStore := make(map[uuid.UUID]*usecase.RecomputeResult, len(results))
	for _, result := range results {
		byStore[result.StoreID] = result
	}

	require.NoError(t, byStore[storeA].Err)
	assert.Equal(t, 4.0, byStore[storeA].AvgRating)
	assert.Equal(t, int64(2), byStore[storeA].TotalRatings)
	require.Error(t, byStore[storeB].Err)
	assert.ErrorIs(t, byStore[storeB].Err, domainerrors.ErrStoreNotFound)
}
