package domain

import (
	"errors"
)

var (
	MessageSuccessGetPhotos     = "photos retrieved successfully"
	MessageSuccessGetPhoto      = "photo retrieved successfully"
	MessageSuccessClearPhotos   = "all photos deleted successfully"
	MessageSuccessSharePhoto    = "photo shared successfully"
	MessageSuccessDownloadPhoto = "photo downloaded successfully"

	MessageFailedGetPhotos     = "failed to retrieve photos"
	MessageFailedGetPhoto      = "failed to retrieve photo"
	MessageFailedClearPhotos   = "failed to delete photos"
	MessageFailedSharePhoto    = "failed to share photo"
	MessageFailedDownloadPhoto = "failed to download photo"

	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotoProcessing    = errors.New("photo is still processing")
	ErrNoTransformedImage = errors.New("no transformed image available")
)

type PhotoStatus string

const (
	PhotoStatusProcessing PhotoStatus = "processing"
	PhotoStatusCompleted  PhotoStatus = "completed"
	PhotoStatusFailed     PhotoStatus = "failed"
)

// Photo is a single transformation record. TransformedURL is set if and
// only if Status is completed; CreatedAt is epoch milliseconds.
type Photo struct {
	ID             string      `json:"id"`
	OriginalURL    string      `json:"originalUrl"`
	TransformedURL string      `json:"transformedUrl,omitempty"`
	CreatedAt      int64       `json:"createdAt"`
	Status         PhotoStatus `json:"status"`
}

// PhotoUpdate carries the fields of a partial update. Nil fields are left
// untouched; a pointer to the empty string clears TransformedURL.
type PhotoUpdate struct {
	TransformedURL *string
	Status         *PhotoStatus
}

type (
	SharePhotoRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	PhotoDownload struct {
		Filename string
		Data     []byte
	}
)
