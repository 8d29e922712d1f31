// Package http exposes the analysis pipeline over a REST API.
package http

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/fitting"
	"github.com/jgraziolaVU/Yeonni1MB/internal/domain/spectrum"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/storage"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// Handler carries the dependencies of the API endpoints.
type Handler struct {
	svc        *appanalysis.Service
	store      storage.ReportStore
	logger     logging.Logger
	metrics    *appprom.AppMetrics
	maxUpload  int64
	storageTag string
}

// NewHandler builds the endpoint set. store may be nil, which disables
// report persistence; analyses still return their full result.
func NewHandler(svc *appanalysis.Service, store storage.ReportStore, logger logging.Logger, metrics *appprom.AppMetrics, maxUpload int64, storageBackend string) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		svc:        svc,
		store:      store,
		logger:     logger.Named("http"),
		metrics:    metrics,
		maxUpload:  maxUpload,
		storageTag: storageBackend,
	}
}

// customParams mirrors the request JSON for parameter overrides: a map from
// parameter name to initial value and optional bounds.
type customParams map[string]struct {
	Value *float64 `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Analyze handles POST /api/v1/analyze: a multipart upload with the spectrum
// file under "file" and optional form fields model_type, n_sites and
// custom_params.
func (h *Handler) Analyze(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, apperrors.Wrap(err, apperrors.CodeInvalidParam, `missing multipart file field "file"`))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.writeError(c, apperrors.Wrap(err, apperrors.CodeInvalidParam, "read uploaded file"))
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		h.writeError(c, apperrors.Wrap(err, apperrors.CodeInvalidParam, "read uploaded file"))
		return
	}

	opts, err := parseOptions(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), fileHeader.Filename, raw, opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.persist(c, result)
	c.JSON(http.StatusOK, result)
}

func parseOptions(c *gin.Context) (appanalysis.Options, error) {
	var opts appanalysis.Options

	opts.Model = c.PostForm("model_type")

	if v := c.PostForm("n_sites"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > spectrum.MaxSites {
			return opts, apperrors.Newf(apperrors.CodeInvalidParam,
				"n_sites %q is invalid; expected an integer in [1, %d]", v, spectrum.MaxSites)
		}
		opts.NSites = n
	}

	if v := c.PostForm("custom_params"); v != "" {
		var params customParams
		if err := json.Unmarshal([]byte(v), &params); err != nil {
			return opts, apperrors.Wrap(err, apperrors.CodeInvalidParam, "custom_params is not valid JSON")
		}
		opts.Overrides = make(map[string]fitting.Override, len(params))
		for name, p := range params {
			opts.Overrides[name] = fitting.Override{Value: p.Value, Min: p.Min, Max: p.Max}
		}
	}

	return opts, nil
}

// persist saves the report best-effort: a storage failure is logged and
// counted but never fails the analysis response.
func (h *Handler) persist(c *gin.Context, result *analysis.Result) {
	if h.store == nil {
		return
	}

	outcome := "success"
	if err := h.store.Save(c.Request.Context(), result); err != nil {
		outcome = "error"
		h.logger.Warn("report persistence failed",
			logging.String("id", result.ID),
			logging.Err(err),
		)
	}
	if h.metrics != nil {
		h.metrics.ReportsSavedTotal.WithLabelValues(h.storageTag, outcome).Inc()
	}
}

// GetReport handles GET /api/v1/reports/:id.
func (h *Handler) GetReport(c *gin.Context) {
	if h.store == nil {
		h.writeError(c, apperrors.New(apperrors.CodeNotFound, "report storage is disabled"))
		return
	}

	result, err := h.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteReport handles DELETE /api/v1/reports/:id.
func (h *Handler) DeleteReport(c *gin.Context) {
	if h.store == nil {
		h.writeError(c, apperrors.New(apperrors.CodeNotFound, "report storage is disabled"))
		return
	}

	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports readiness. The pipeline is stateless, so readiness follows
// liveness.
func (h *Handler) Readyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)

	body := gin.H{"code": code.String(), "message": err.Error()}
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		body["message"] = appErr.Message
		if appErr.Detail != "" {
			body["detail"] = appErr.Detail
		}
	}

	c.JSON(code.HTTPStatus(), gin.H{"error": body})
}
