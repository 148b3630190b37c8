package domain

import (
	"errors"
)

var (
	MessageSuccessTransform  = "image transformed successfully"
	MessageSuccessRegenerate = "photo regenerated successfully"
	MessageDuplicatePhoto    = "this image has already been transformed"

	MessageFailedTransform  = "failed to transform image"
	MessageFailedRegenerate = "failed to regenerate photo"

	ErrUploadFailed = errors.New("image upload failed")

	// Stylize failures classified for user messaging; never retried.
	ErrStylizeAuth     = errors.New("stylize authentication failed")
	ErrStylizeNotFound = errors.New("stylize endpoint not found")
	ErrStylizeTimeout  = errors.New("stylize request timed out")
	ErrStylizeFailed   = errors.New("stylize request failed")
)

type (
	TransformRequest struct {
		ImageURL string `json:"image_url" validate:"required,url"`
		Force    bool   `json:"force"`
	}

	// TransformResult reports where the workflow landed. Duplicate means a
	// completed record for the same source already existed and no coin was
	// spent; the caller decides whether to re-run with Force.
	TransformResult struct {
		PhotoID   string `json:"photo_id"`
		Duplicate bool   `json:"duplicate"`
	}
)
