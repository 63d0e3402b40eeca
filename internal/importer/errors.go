package importer

import "errors"

var (
	ErrForbidden      = errors.New("actor lacks required capability")
	ErrUploadNotFound = errors.New("no staged upload for this token")
	ErrUnknownEntity  = errors.New("entity type is not importable")
	ErrNoTarget       = errors.New("no destination entity selected for this upload")
	ErrInvalidMode    = errors.New("mode must be add or replace")
	ErrInvalidMapping = errors.New("mapping references unknown columns or fields")
)
