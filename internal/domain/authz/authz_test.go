package authz

import (
	"testing"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func principalWithRole(role entity.Role) entity.Principal {
	return entity.Principal{UserID: uuid.New(), Role: role}
}

func TestCanSubmitRating(t *testing.T) {
	assert.True(t, CanSubmitRating(principalWithRole(entity.RoleUser)))
	assert.False(t, CanSubmitRating(principalWithRole(entity.RoleAdmin)))
	assert.False(t, CanSubmitRating(principalWithRole(entity.RoleStoreOwner)))
	assert.False(t, CanSubmitRating(principalWithRole(entity.Role("UNKNOWN"))))
}

func TestCanUpdateRating_OnlyAuthor(t *testing.T) {
	author := principalWithRole(entity.RoleUser)
	rating := &entity.Rating{ID: uuid.New(), UserID: author.UserID, StoreID: uuid.New(), Value: 3}

	assert.True(t, CanUpdateRating(author, rating))
	assert.False(t, CanUpdateRating(principalWithRole(entity.RoleUser), rating))
	assert.False(t, CanUpdateRating(entity.Principal{UserID: rating.UserID, Role: entity.RoleAdmin}, rating))
	assert.False(t, CanUpdateRating(entity.Principal{UserID: rating.UserID, Role: entity.RoleStoreOwner}, rating))
}

func TestCanListStoreRatings(t *testing.T) {
	owner := principalWithRole(entity.RoleStoreOwner)
	store := &entity.Store{ID: uuid.New(), OwnerID: owner.UserID}
	otherStore := &entity.Store{ID: uuid.New(), OwnerID: uuid.New()}

	assert.True(t, CanListStoreRatings(principalWithRole(entity.RoleAdmin), store))
	assert.True(t, CanListStoreRatings(principalWithRole(entity.RoleAdmin), otherStore))
	assert.True(t, CanListStoreRatings(owner, store))
	assert.False(t, CanListStoreRatings(owner, otherStore))
	assert.False(t, CanListStoreRatings(principalWithRole(entity.RoleUser), store))
}

func TestCanManageStores(t *testing.T) {
	assert.True(t, CanManageStores(principalWithRole(entity.RoleAdmin)))
	assert.False(t, CanManageStores(principalWithRole(entity.RoleUser)))
	assert.False(t, CanManageStores(principalWithRole(entity.RoleStoreOwner)))
}

func TestCanUpdateStore(t *testing.T) {
	owner := principalWithRole(entity.RoleStoreOwner)
	store := &entity.Store{ID: uuid.New(), OwnerID: owner.UserID}
	otherStore := &entity.Store{ID: uuid.New(), OwnerID: uuid.New()}

	assert.True(t, CanUpdateStore(principalWithRole(entity.RoleAdmin), otherStore))
	assert.True(t, CanUpdateStore(owner, store))
	assert.False(t, CanUpdateStore(owner, otherStore))
	assert.False(t, CanUpdateStore(principalWithRole(entity.RoleUser), store))
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(principalWithRole(entity.RoleAdmin)))
	assert.False(t, CanManageUsers(principalWithRole(entity.RoleUser)))
	assert.False(t, CanManageUsers(principalWithRole(entity.RoleStoreOwner)))
}

func TestCanChangeOwnPassword(t *testing.T) {
	assert.True(t, CanChangeOwnPassword(principalWithRole(entity.RoleUser)))
	assert.True(t, CanChangeOwnPassword(principalWithRole(entity.RoleStoreOwner)))
	assert.False(t, CanChangeOwnPassword(principalWithRole(entity.RoleAdmin)))
}
