package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/domain/search/filter"
	"github.com/kailas-cloud/recommender/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	cataloguc "github.com/kailas-cloud/recommender/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recommender/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/recommender/internal/usecase/recommend"
	"github.com/kailas-cloud/recommender/internal/version"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "recommender"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	recommend     *recommenduc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	limits        request.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. catalog may be nil, which disables reloads.
func NewServer(
	recommend *recommenduc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommend: recommend,
		catalog:   catalog,
		health:    health,
		limits:    request.DefaultLimits(),
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, ErrorCodeProductNotFound),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, ErrorCodeIndexNotReady),
		sentinelHandler(domain.ErrInvalidItem, http.StatusUnprocessableEntity, ErrorCodeInvalidCatalog),
		sentinelHandler(domain.ErrIndexBuild, http.StatusUnprocessableEntity, ErrorCodeInvalidCatalog),
		sentinelHandler(domain.ErrEncoderFailure, http.StatusBadGateway, ErrorCodeEncoderError),
		sentinelHandler(domain.ErrCatalogSource, http.StatusBadGateway, ErrorCodeCatalogSourceError),
	}
	return s
}

// WithLimits overrides the default and maximum top_k.
func (s *Server) WithLimits(l request.Limits) *Server {
	s.limits = l
	return s
}

// Recommend handles POST /recommend and POST /search.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var body RecommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if body.Query == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "query is required")
		return
	}

	req, err := recommendRequestFromDTO(s.limits, &body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.recommend.Recommend(ctx, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if res.Fallback() {
		logpkg.FromContext(r.Context()).Debug("Recommendation fell back to catalog order",
			zap.Int("top_k", req.TopK()),
			zap.Int("count", res.Len()),
		)
	}

	hits := res.Hits()
	results := make([]Product, len(hits))
	for i := range hits {
		results[i] = hitToDTO(&hits[i])
	}

	setEncoderHeaders(w, usage)
	writeJSON(w, http.StatusOK, RecommendResponse{
		Results:   results,
		QueryUsed: req.Query(),
		Count:     len(results),
		Fallback:  res.Fallback(),
	})
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.recommend.Products(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	products := make([]Product, len(items))
	for i, it := range items {
		products[i] = productToDTO(it)
	}
	writeJSON(w, http.StatusOK, ProductListResponse{Products: products, Total: len(products)})
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "product id must be an integer")
		return
	}

	it, err := s.recommend.Product(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(it))
}

// ReloadCatalog handles POST /catalog/reload.
func (s *Server) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "catalog reload is not configured")
		return
	}

	report, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logpkg.FromContext(r.Context()).Info("Catalog reloaded",
		zap.String("snapshot_id", report.SnapshotID),
		zap.Int("items", report.Items),
		zap.Int("skipped", report.Skipped),
	)
	writeJSON(w, http.StatusOK, reportToDTO(report))
}

// HealthCheck handles GET / and GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:     report.Status,
		Service:    ServiceName,
		Version:    version.Version,
		Checks:     report.Checks,
		Items:      report.Items,
		SnapshotID: report.SnapshotID,
	})
}

// recommendRequestFromDTO maps the wire request onto the domain request.
// An empty category means no category filter; price bounds apply whenever present.
func recommendRequestFromDTO(limits request.Limits, body *RecommendRequest) (request.Request, error) {
	category := ""
	if body.Category != nil {
		category = *body.Category
	}
	spec := filter.NewSpec(category, body.MinPrice, body.MaxPrice)

	includeScores := body.IncludeScores != nil && *body.IncludeScores
	return limits.New(*body.Query, body.TopK, spec, includeScores)
}

func setEncoderHeaders(w http.ResponseWriter, usage *domain.EncodeUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Encoder-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrIndexNotReady,
		domain.ErrInvalidItem,
		domain.ErrIndexBuild,
		domain.ErrEncoderFailure,
		domain.ErrCatalogSource,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
