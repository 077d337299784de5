package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexBuild signals a catalog that cannot be represented as an index.
	ErrIndexBuild = errors.New("index build failed")
	// ErrDuplicateItemID signals two catalog items sharing one id.
	ErrDuplicateItemID = errors.New("duplicate item id")
	// ErrDimensionMismatch signals vectors of different lengths being compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEncoderFailure signals a vector encoder provider failure.
	ErrEncoderFailure = errors.New("encoder failure")
	// ErrInvalidItem signals a catalog item that fails validation.
	ErrInvalidItem = errors.New("invalid item")
	// ErrProductNotFound signals a missing catalog item.
	ErrProductNotFound = errors.New("product not found")
	// ErrIndexNotReady signals that no catalog index has been published yet.
	ErrIndexNotReady = errors.New("catalog index not ready")
	// ErrCatalogSource signals a failure reading the catalog from its source.
	ErrCatalogSource = errors.New("catalog source error")
)

// DuplicateItemError wraps ErrDuplicateItemID with the offending id.
type DuplicateItemError struct {
	ID int64
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("%s: %d", ErrDuplicateItemID.Error(), e.ID)
}

func (e *DuplicateItemError) Unwrap() error { return ErrDuplicateItemID }

// NewDuplicateItem creates a duplicate item id error.
func NewDuplicateItem(id int64) error {
	return &DuplicateItemError{ID: id}
}

// DimensionMismatchError carries both vector lengths.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", ErrDimensionMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(want, got int) error {
	return &DimensionMismatchError{Want: want, Got: got}
}
