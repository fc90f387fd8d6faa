package canvas

import "errors"

var (
	// ErrBusy means another operation holds the canvas token. Callers retry
	// manually; nothing is queued.
	ErrBusy = errors.New("canvas operation already in progress")

	ErrNoSelection    = errors.New("no object selected")
	ErrNotImage       = errors.New("selected object is not an image")
	ErrRotatedTarget  = errors.New("selected image is rotated")
	ErrNotText        = errors.New("selected object is not text")
	ErrCropInactive   = errors.New("crop mode not active")
	ErrCropActive     = errors.New("crop mode already active")
	ErrDegenerateCrop = errors.New("crop rectangle has zero area")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)
