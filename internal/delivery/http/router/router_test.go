package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratehub/internal/delivery/http/middleware"
	"ratehub/internal/delivery/http/router/handler"
	"ratehub/internal/domain/entity"
	mockSvc "ratehub/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full route table with a mock token service. The
// handlers never run in these tests: the auth middleware rejects the request
// before they are reached.
func newTestServer(t *testing.T) (*echo.Echo, *mockSvc.MockTokenService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenSvc := mockSvc.NewMockTokenService(t)

	r := NewRouter(RouterParams{
		AuthHandler:    handler.NewAuthHandler(nil, logger),
		UserHandler:    handler.NewUserHandler(nil, logger),
		StoreHandler:   handler.NewStoreHandler(nil, logger),
		RatingHandler:  handler.NewRatingHandler(nil, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokenSvc),
	})

	e := echo.New()
	r.RegisterRoutes(e)

	return e, tokenSvc
}

func TestRegisterRoutes_StoreRoutesRejectMissingToken(t *testing.T) {
	e, _ := newTestServer(t)

	storeID := uuid.NewString()
	cases := []struct {
		name   string
		method string
		target string
	}{
		{"list stores", http.MethodGet, "/stores"},
		{"get store", http.MethodGet, "/stores/" + storeID},
		{"store by owner", http.MethodGet, "/stores/owner/" + storeID},
		{"store qr code", http.MethodGet, "/stores/" + storeID + "/qrcode"},
		{"qr lookup", http.MethodPost, "/stores/qr-lookup"},
		{"update store", http.MethodPut, "/stores/" + storeID},
		{"create store", http.MethodPost, "/stores"},
		{"delete store", http.MethodDelete, "/stores/" + storeID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRegisterRoutes_StoreListingRejectsInvalidToken(t *testing.T) {
	e, tokenSvc := newTestServer(t)

	tokenSvc.EXPECT().
		Validate("expired-token").
		Return(entity.Principal{}, errors.New("token is expired"))

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRoutes_HealthStaysPublic(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
