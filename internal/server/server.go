package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/finance-engine/internal/calculator"
	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/internal/metrics"
	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/tax"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestIDHeader carries the chi request id on every response.
const RequestIDHeader = "X-Request-Id"

type handler struct {
	logger         *zap.Logger
	calc           *calculator.Calculator
	maxRequestSize int64
	version        string
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	CalculationID string `json:"calculationId,omitempty"`
}

// tablesResponse lists the bracket tables calculations can name.
type tablesResponse struct {
	Default string             `json:"default"`
	Tables  []tax.BracketTable `json:"tables"`
}

// requestEnvelope holds the optional fields shared by every calculation body.
type requestEnvelope struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, calc *calculator.Calculator, conf config.ServerConfig, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		calc:           calc,
		maxRequestSize: conf.RequestSizeBytes(),
		version:        trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(conf.Timeout()))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/tax/tables", h.handleTaxTables)
		r.Post("/payoff/compare", func(w http.ResponseWriter, r *http.Request) {
			h.calculate(w, r, config.TypePayoffCompare)
		})
		r.Post("/{type}", func(w http.ResponseWriter, r *http.Request) {
			h.calculate(w, r, chi.URLParam(r, "type"))
		})
	})

	return r
}

// observe records request metrics under the matched route pattern and echoes
// the request id.
func (h *handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveRequest(route, status, time.Since(start))
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleTaxTables(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, tablesResponse{
		Default: h.calc.DefaultTable(),
		Tables:  h.calc.Tables().All(),
	})
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request, calcType string) {
	const op = "server.calculate"
	start := time.Now()

	if !config.IsCalculationType(calcType) {
		h.respondErrorWithOp(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("unknown calculation type %q", calcType),
			Field: "type",
		}, op)
		return
	}

	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize),
			}, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to read request: %v", err),
		}, op)
		return
	}

	calc := config.Calculation{Type: calcType}
	target, err := calc.ParamsTarget()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, errorResponse{Error: err.Error(), Field: "type"}, op)
		return
	}
	if err := json.Unmarshal(body, target); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to decode request: %v", err),
		}, op)
		return
	}
	var envelope requestEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		calc.Name = envelope.Name
		calc.StartDate = envelope.StartDate
	}

	result, err := h.calc.Run(calc)
	if err != nil {
		status := http.StatusInternalServerError
		if validation.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, status, errorResponse{
			Error:         result.Error,
			Field:         result.Field,
			CalculationID: result.ID.String(),
		}, op)
		return
	}

	h.logger.Info("calculation served",
		zap.String("op", op),
		zap.String("type", calcType),
		zap.String("calculationId", result.ID.String()),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, resp errorResponse, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
		zap.String("field", resp.Field),
	)

	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// NewServer wraps the handler in an http.Server listening on conf.Address.
func NewServer(handler http.Handler, conf config.ServerConfig) *http.Server {
	addr := conf.Address
	if addr == "" {
		addr = constants.DefaultServerAddress
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
