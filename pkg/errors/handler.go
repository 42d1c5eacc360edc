package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger        *zap.Logger
	debug         bool
	defaultStatus int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger:        logger,
		debug:         debug,
		defaultStatus: http.StatusInternalServerError,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := r.Header.Get("X-Request-ID")

	var status int
	var response ErrorResponse

	if appErr := GetAppError(err); appErr != nil {
		status = appErr.HTTPStatus
		if status == 0 {
			status = h.defaultStatus
		}

		response = ErrorResponse{
			Error:     true,
			Type:      string(appErr.Type),
			Message:   appErr.Message,
			Code:      appErr.Code,
			Details:   appErr.Details,
			RequestID: requestID,
		}

		h.logError(r, appErr, status)

		if h.debug && appErr.StackTrace != "" {
			if response.Details == nil {
				response.Details = make(map[string]interface{})
			}
			response.Details["stack_trace"] = appErr.StackTrace
		}
	} else {
		status = h.defaultStatus
		response = ErrorResponse{
			Error:     true,
			Type:      string(ErrorTypeInternal),
			Message:   "internal server error",
			RequestID: requestID,
		}

		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
		if h.debug {
			response.Message = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// logError logs an application error with a severity matching its type.
// Integrity violations are always a bug signal and go out at error level
// even when the HTTP status is in the 4xx range.
func (h *ErrorHandler) logError(r *http.Request, appErr *AppError, status int) {
	fields := []zap.Field{
		zap.String("type", string(appErr.Type)),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Int("status", status),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}

	switch {
	case appErr.Type == ErrorTypeIntegrity,
		appErr.Type == ErrorTypePartialWrite,
		appErr.Type == ErrorTypePartialDelete:
		h.logger.Error(appErr.Message, fields...)
	case status >= 500:
		h.logger.Error(appErr.Message, fields...)
	case status >= 400:
		h.logger.Warn(appErr.Message, fields...)
	default:
		h.logger.Info(appErr.Message, fields...)
	}
}
