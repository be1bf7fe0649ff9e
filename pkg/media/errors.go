package media

import "errors"

var (
	ErrInvalidConfig      = errors.New("media: invalid configuration")
	ErrFailedToLoadConfig = errors.New("media: failed to load AWS config")
	ErrInvalidKey         = errors.New("media: invalid object key")
	ErrUpload             = errors.New("media: upload failed")
	ErrBucketNotFound     = errors.New("media: bucket not found")
	ErrAccessDenied       = errors.New("media: access denied")
	ErrServiceUnavailable = errors.New("media: service temporarily unavailable")

	ErrDownload        = errors.New("media: download failed")
	ErrTooLarge        = errors.New("media: file exceeds size limit")
	ErrUnsupportedType = errors.New("media: unsupported content type")
)
