package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrBadRequest: http.StatusBadRequest,
	domain.ErrGateway:    http.StatusBadRequest,

	domain.ErrPaymentNotApproved: http.StatusPaymentRequired,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatus resolves the response code for err, unwrapping as needed.
func errorStatus(err error) (int, bool) {
	for target, code := range errorStatusMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

// errorMessage is the text exposed to callers. Gateway errors carry the
// provider's own message.
func errorMessage(err error) string {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return err.Error()
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.logger.Debug("invalid request", zap.String("path", ctx.FullPath()), zap.Error(err))
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := errorStatus(err)
	if !ok || statusCode == http.StatusInternalServerError {
		h.logger.Error("error processing request", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: domain.ErrInternal.Error()})
		return
	}
	ctx.JSON(statusCode, errorResponse{Error: errorMessage(err)})
}

// handleErrorWithStatus forces the response code, used where the route
// contract collapses every failure into one status.
func (h *Handler) handleErrorWithStatus(ctx *gin.Context, err error, status int) {
	if _, ok := errorStatus(err); !ok {
		h.logger.Error("error processing request", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	ctx.JSON(status, errorResponse{Error: errorMessage(err)})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
