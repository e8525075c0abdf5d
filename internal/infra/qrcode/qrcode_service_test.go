package qrcode

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestQRCodeService_GenerateStoreQR(t *testing.T) {
	service := NewQRCodeService(128, "M")
	storeID := uuid.New()

	png, err := service.GenerateStoreQR(storeID)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestQRCodeService_ParseStoreQR_Roundtrip(t *testing.T) {
	service := NewQRCodeService(128, "M")
	storeID := uuid.New()

	payload, err := json.Marshal(QRCodeData{StoreID: storeID.String(), Type: "store"})
	require.NoError(t, err)

	parsed, err := service.ParseStoreQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, storeID, parsed)
}

func TestQRCodeService_ParseStoreQR_RejectsWrongType(t *testing.T) {
	service := NewQRCodeService(128, "M")

	payload, err := json.Marshal(QRCodeData{StoreID: uuid.New().String(), Type: "user"})
	require.NoError(t, err)

	_, err = service.ParseStoreQR(string(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestQRCodeService_ParseStoreQR_RejectsGarbage(t *testing.T) {
	service := NewQRCodeService(128, "M")

	_, err := service.ParseStoreQR("not-json")
	require.Error(t, err)

	_, err = service.ParseStoreQR(`{"store_id":"not-a-uuid","type":"store"}`)
	require.Error(t, err)
}

func TestNewQRCodeService_UnknownLevelFallsBackToMedium(t *testing.T) {
	service := NewQRCodeService(64, "X")

	png, err := service.GenerateStoreQR(uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
