package service

import "github.com/google/uuid"

// QRCodeService generates QR codes linking to a store's public page.
type QRCodeService interface {
	// GenerateStoreQR renders a PNG QR code encoding the store id.
	GenerateStoreQR(storeID uuid.UUID) ([]byte, error)

	// ParseStoreQR parses QR code data and returns the store ID.
	ParseStoreQR(qrData string) (uuid.UUID, error)
}
