package chi

import (
	domcat "github.com/kailas-cloud/recommender/internal/domain/catalog"
	"github.com/kailas-cloud/recommender/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/recommender/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeProductNotFound    ErrorCode = "product_not_found"
	ErrorCodeIndexNotReady      ErrorCode = "index_not_ready"
	ErrorCodeEncoderError       ErrorCode = "encoder_error"
	ErrorCodeCatalogSourceError ErrorCode = "catalog_source_error"
	ErrorCodeInvalidCatalog     ErrorCode = "invalid_catalog"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed   ErrorCode = "method_not_allowed"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecommendRequest is the body of POST /recommend and POST /search.
// Pointer fields distinguish an absent value from a zero value.
type RecommendRequest struct {
	Query         *string `json:"query"`
	TopK          *int    `json:"top_k,omitempty"`
	MinPrice      *int64  `json:"min_price,omitempty"`
	MaxPrice      *int64  `json:"max_price,omitempty"`
	Category      *string `json:"category,omitempty"`
	IncludeScores *bool   `json:"include_scores,omitempty"`
}

// Product is the wire shape of a catalog item.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

// RecommendResponse is the body returned by POST /recommend.
type RecommendResponse struct {
	Results   []Product `json:"results"`
	QueryUsed string    `json:"query_used"`
	Count     int       `json:"count"`
	Fallback  bool      `json:"fallback"`
}

// ProductListResponse is the body returned by GET /products.
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ReloadResponse is the body returned by POST /catalog/reload.
type ReloadResponse struct {
	SnapshotID string  `json:"snapshot_id"`
	Items      int     `json:"items"`
	Skipped    int     `json:"skipped"`
	SkippedIDs []int64 `json:"skipped_ids,omitempty"`
	DurationMS int64   `json:"duration_ms"`
}

// HealthResponse is the body returned by GET / and GET /health.
type HealthResponse struct {
	Status     healthuc.Status                 `json:"status"`
	Service    string                          `json:"service"`
	Version    string                          `json:"version"`
	Checks     map[string]healthuc.CheckResult `json:"checks"`
	Items      int                             `json:"items"`
	SnapshotID string                          `json:"snapshot_id,omitempty"`
}

func productToDTO(it domcat.Item) Product {
	return Product{
		ID:          it.ID(),
		Name:        it.Name(),
		Price:       it.Price(),
		Category:    it.Category(),
		Image:       it.Image(),
		Description: it.Description(),
	}
}

func hitToDTO(h *result.Hit) Product {
	p := productToDTO(h.Item())
	if score, ok := h.Score(); ok {
		p.Score = &score
	}
	return p
}

func reportToDTO(r cataloguc.BuildReport) ReloadResponse {
	return ReloadResponse{
		SnapshotID: r.SnapshotID,
		Items:      r.Items,
		Skipped:    r.Skipped,
		SkippedIDs: r.SkippedIDs,
		DurationMS: r.Duration.Milliseconds(),
	}
}
