package impl

import (
	"context"
	"testing"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	mockRepo "ratehub/internal/mocks/repository"
	mockSvc "ratehub/internal/mocks/service"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreService_CreateStore_PromotesOwner(t *testing.T) {
	mockUserRepo := mockRepo.NewMockUserRepository(t)
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)

	service := NewStoreService(StoreServiceParams{
		TxManager:     passthroughTxManager(t, mockFactory),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	ownerID := uuid.New()

	owner := &entity.User{ID: ownerID, Role: entity.RoleUser}

	mockUserRepo.EXPECT().FindByID(ctx, ownerID).Return(owner, nil)
	mockUserRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, updated *entity.User) {
			assert.Equal(t, entity.RoleStoreOwner, updated.Role)
		}).
		Return(nil)
	mockStoreRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Store")).
		Return(nil)

	store, err := service.CreateStore(ctx, admin, &usecase.CreateStoreInput{
		Name:    "Corner Grocery and Deli Market",
		Email:   "store@example.com",
		Address: "2 High Street",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, ownerID, store.OwnerID)
}

func TestStoreService_CreateStore_OwnerAlreadyPromoted(t *testing.T) {
	mockUserRepo := mockRepo.NewMockUserRepository(t)
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)

	service := NewStoreService(StoreServiceParams{
		TxManager:     passthroughTxManager(t, mockFactory),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	ownerID := uuid.New()

	// No user update expected: promotion is idempotent.
	mockUserRepo.EXPECT().
		FindByID(ctx, ownerID).
		Return(&entity.User{ID: ownerID, Role: entity.RoleStoreOwner}, nil)
	mockStoreRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Store")).
		Return(nil)

	store, err := service.CreateStore(ctx, admin, &usecase.CreateStoreInput{
		Name:    "Corner Grocery and Deli Market",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestStoreService_CreateStore_UnknownOwner(t *testing.T) {
	mockUserRepo := mockRepo.NewMockUserRepository(t)
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)

	service := NewStoreService(StoreServiceParams{
		TxManager:     passthroughTxManager(t, mockFactory),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	ownerID := uuid.New()

	mockUserRepo.EXPECT().
		FindByID(ctx, ownerID).
		Return(nil, repository.ErrUserNotFound)

	store, err := service.CreateStore(ctx, admin, &usecase.CreateStoreInput{
		Name:    "Corner Grocery and Deli Market",
		OwnerID: ownerID,
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidOwnerReference)
	assert.Nil(t, store)
}

func TestStoreService_CreateStore_ForbiddenForStoreOwner(t *testing.T) {
	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockRepo.NewMockStoreRepository(t),
		QRCodeService: mockSvc.NewMockQRCodeService(t),
		Logger:        testLogger(),
	})

	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleStoreOwner}

	store, err := service.CreateStore(context.Background(), principal, &usecase.CreateStoreInput{
		Name:    "Corner Grocery and Deli Market",
		OwnerID: uuid.New(),
	})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Nil(t, store)
}

func TestStoreService_UpdateStore_OwnerCannotTouchForeignStore(t *testing.T) {
	mockUserRepo := mockRepo.NewMockUserRepository(t)
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)

	service := NewStoreService(StoreServiceParams{
		TxManager:     passthroughTxManager(t, mockFactory),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()
	principal := entity.Principal{UserID: uuid.New(), Role: entity.RoleStoreOwner}

	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(&entity.Store{ID: storeID, OwnerID: uuid.New()}, nil)

	newName := "Renamed Store With A Long Name"

	store, err := service.UpdateStore(ctx, principal, &usecase.UpdateStoreInput{
		StoreID: storeID,
		Name:    &newName,
	})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Nil(t, store)
}

func TestStoreService_UpdateStore_OwnerChangeRevalidatesAndPromotes(t *testing.T) {
	mockUserRepo := mockRepo.NewMockUserRepository(t)
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)
	mockFactory := mockRepo.NewMockRepositoryFactory(t)
	mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
	mockFactory.EXPECT().StoreRepo().Return(mockStoreRepo)

	service := NewStoreService(StoreServiceParams{
		TxManager:     passthroughTxManager(t, mockFactory),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	storeID := uuid.New()
	newOwnerID := uuid.New()

	existing := &entity.Store{ID: storeID, OwnerID: uuid.New()}
	newOwner := &entity.User{ID: newOwnerID, Role: entity.RoleUser}

	mockStoreRepo.EXPECT().FindByID(ctx, storeID).Return(existing, nil)
	mockUserRepo.EXPECT().FindByID(ctx, newOwnerID).Return(newOwner, nil)
	mockUserRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, updated *entity.User) {
			assert.Equal(t, entity.RoleStoreOwner, updated.Role)
		}).
		Return(nil)
	mockStoreRepo.EXPECT().Update(ctx, existing).Return(nil)

	store, err := service.UpdateStore(ctx, admin, &usecase.UpdateStoreInput{
		StoreID: storeID,
		OwnerID: &newOwnerID,
	})
	require.NoError(t, err)
	assert.Equal(t, newOwnerID, store.OwnerID)
}

func TestStoreService_GetStoreByOwner_NotFound(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockSvc.NewMockQRCodeService(t),
		Logger:        testLogger(),
	})

	ctx := context.Background()
	ownerID := uuid.New()

	mockStoreRepo.EXPECT().
		FindFirstByOwnerID(ctx, ownerID).
		Return(nil, repository.ErrStoreNotFound)

	store, err := service.GetStoreByOwner(ctx, ownerID)
	require.ErrorIs(t, err, domainerrors.ErrStoreNotFound)
	assert.Nil(t, store)
}

func TestStoreService_StoreQRCode_Success(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()

	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(&entity.Store{ID: storeID}, nil)
	mockQRService.EXPECT().
		GenerateStoreQR(storeID).
		Return([]byte("png-bytes"), nil)

	png, err := service.StoreQRCode(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
}

func TestStoreService_ResolveStoreQR_ReturnsStore(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()
	qrData := `{"type":"store","id":"` + storeID.String() + `"}`

	mockQRService.EXPECT().ParseStoreQR(qrData).Return(storeID, nil)
	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(&entity.Store{ID: storeID, Name: "Corner Grocery and Deli Market"}, nil)

	store, err := service.ResolveStoreQR(ctx, qrData)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, storeID, store.ID)
}

func TestStoreService_ResolveStoreQR_InvalidPayload(t *testing.T) {
	mockQRService := mockSvc.NewMockQRCodeService(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockRepo.NewMockStoreRepository(t),
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	mockQRService.EXPECT().
		ParseStoreQR("not-a-store-qr").
		Return(uuid.Nil, errors.New("unexpected QR payload"))

	store, err := service.ResolveStoreQR(context.Background(), "not-a-store-qr")
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Nil(t, store)
}

func TestStoreService_ResolveStoreQR_UnknownStore(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)
	mockQRService := mockSvc.NewMockQRCodeService(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockQRService,
		Logger:        testLogger(),
	})

	ctx := context.Background()
	storeID := uuid.New()

	mockQRService.EXPECT().ParseStoreQR(mock.Anything).Return(storeID, nil)
	mockStoreRepo.EXPECT().
		FindByID(ctx, storeID).
		Return(nil, repository.ErrStoreNotFound)

	store, err := service.ResolveStoreQR(ctx, "stale-store-qr")
	require.ErrorIs(t, err, domainerrors.ErrStoreNotFound)
	assert.Nil(t, store)
}

func TestStoreService_DeleteStore_NotFound(t *testing.T) {
	mockStoreRepo := mockRepo.NewMockStoreRepository(t)

	service := NewStoreService(StoreServiceParams{
		TxManager:     mockRepo.NewMockTransactionManager(t),
		StoreRepo:     mockStoreRepo,
		QRCodeService: mockSvc.NewMockQRCodeService(t),
		Logger:        testLogger(),
	})

	ctx := context.Background()
	admin := entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	storeID := uuid.New()

	mockStoreRepo.EXPECT().Delete(ctx, storeID).Return(repository.ErrStoreNotFound)

	err := service.DeleteStore(ctx, admin, storeID)
	require.ErrorIs(t, err, domainerrors.ErrStoreNotFound)
}
