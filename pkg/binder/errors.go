package binder

import "errors"

var (
	ErrNotApplicable        = errors.New("binder: not applicable to this request")
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrInvalidForm          = errors.New("binder: invalid form data")
	ErrInvalidQuery         = errors.New("binder: invalid query parameter")
	ErrInvalidTarget        = errors.New("binder: target must be a non-nil pointer to struct")
)
