package recommender

import "github.com/kailas-cloud/recommender/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexBuild        = domain.ErrIndexBuild
	ErrDuplicateItemID   = domain.ErrDuplicateItemID
	ErrDimensionMismatch = domain.ErrDimensionMismatch
	ErrEncoderFailure    = domain.ErrEncoderFailure
	ErrInvalidItem       = domain.ErrInvalidItem
	ErrProductNotFound   = domain.ErrProductNotFound
)
