package settings

import "errors"

var (
	ErrInvalidArgument = errors.New("settings: unknown setting")
	ErrFieldLocked     = errors.New("settings: field is fixed by a deployment constant")
	ErrInvalidValue    = errors.New("settings: invalid value")
	ErrStoreFailure    = errors.New("settings: option store failure")
)
