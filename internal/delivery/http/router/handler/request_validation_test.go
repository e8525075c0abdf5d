package handler

import (
	"strings"
	"testing"

	httpvalidator "ratehub/internal/delivery/http/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSignupRequest_NameBounds(t *testing.T) {
	v := httpvalidator.New()

	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"too short", "ab", true},
		{"minimum length", "Bob", false},
		{"maximum length", strings.Repeat("a", 60), false},
		{"too long", strings.Repeat("a", 61), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&signupRequest{
				Name:     tc.value,
				Email:    "user@example.com",
				Password: "Secret#123",
			})
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserRequests_NameBounds(t *testing.T) {
	v := httpvalidator.New()

	require.Error(t, v.Validate(&createUserRequest{
		Name:     "ab",
		Email:    "user@example.com",
		Password: "Secret#123",
	}))
	require.NoError(t, v.Validate(&createUserRequest{
		Name:     "Bob",
		Email:    "user@example.com",
		Password: "Secret#123",
	}))

	short := "ab"
	require.Error(t, v.Validate(&updateUserRequest{Name: &short}))

	ok := "Bob"
	require.NoError(t, v.Validate(&updateUserRequest{Name: &ok}))
}

func TestStoreRequests_NameBounds(t *testing.T) {
	v := httpvalidator.New()

	ownerID := uuid.NewString()

	require.Error(t, v.Validate(&createStoreRequest{
		Name:    "ab",
		Email:   "store@example.com",
		OwnerID: ownerID,
	}))
	require.NoError(t, v.Validate(&createStoreRequest{
		Name:    "Corner Grocery",
		Email:   "store@example.com",
		OwnerID: ownerID,
	}))

	short := "ab"
	require.Error(t, v.Validate(&updateStoreRequest{Name: &short}))
}
