package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/common/i18n"
	"hunting-reserve-backend/internal/common/logger"
)

const requestIDKey = "request_id"

// ErrorHandler recovers panics and renders them as INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID).
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		sendErrorResponse(c, appErr)
	})
}

// RequestID propagates or assigns X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

type ErrorResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)

	appErr.WithRequestID(requestID).
		WithContext("path", c.Request.URL.Path).
		WithContext("method", c.Request.Method)

	message := i18n.Message(i18n.Resolve(c.GetHeader("Accept-Language")), string(appErr.Code))
	if message == "" {
		message = appErr.Message
	}

	response := ErrorResponse{
		Success:   false,
		Message:   message,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	}

	logError(appErr, c)

	c.AbortWithStatusJSON(HTTPStatus(appErr), response)
}

// HTTPStatus maps an AppError code onto a response status.
func HTTPStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeInvalidRuleShape:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeHunterNotFound, errors.ErrCodeReserveNotFound, errors.ErrCodeQuotaRowNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodeHunterInactive:
		return http.StatusForbidden
	case errors.ErrCodeConflict, errors.ErrCodeZoneSlotTaken, errors.ErrCodeQuotaExhausted,
		errors.ErrCodeAlreadyDrawn, errors.ErrCodeDuplicateParticipation:
		return http.StatusConflict
	case errors.ErrCodeSilenceDay, errors.ErrCodeOutsideBookingWindow, errors.ErrCodeZoneCooldownActive,
		errors.ErrCodeHarvestLimitReached, errors.ErrCodeRegistrationClosed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case errors.ErrCodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context) {
	var event *zerolog.Event
	msg := "Application error occurred"
	switch {
	case appErr.IsInternal():
		event, msg = logger.Error(), "Internal error occurred"
	case appErr.IsUnauthorized():
		event, msg = logger.Warn(), "Unauthorized access attempt"
	case appErr.IsDenial():
		event, msg = logger.Info(), "Request denied"
	case appErr.IsValidation():
		event, msg = logger.Info(), "Validation error"
	case appErr.IsNotFound():
		event, msg = logger.Info(), "Resource not found"
	default:
		event = logger.Error()
	}

	event = event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	if hunterID := getHunterID(c); hunterID != 0 {
		event = event.Int64("hunter_id", hunterID)
	}
	if len(appErr.Details) > 0 {
		detailsJSON, _ := json.Marshal(appErr.Details)
		event = event.RawJSON("details", detailsJSON)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}

	event.Msg(msg)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}

func getHunterID(c *gin.Context) int64 {
	if auth, ok := GetAuth(c); ok {
		return auth.HunterID
	}
	return 0
}

// HandleErrorWrapper renders the last error attached with c.Error.
func HandleErrorWrapper() func(gin.HandlerFunc) gin.HandlerFunc {
	return func(handler gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			handler(c)

			if len(c.Errors) == 0 || c.Writer.Written() {
				return
			}
			err := c.Errors.Last().Err

			if appErr, ok := errors.AsAppError(err); ok {
				sendErrorResponse(c, appErr)
				return
			}

			appErr := errors.Wrap(err, errors.ErrCodeInternal, "Handler error occurred").
				WithRequestID(getRequestID(c)).
				WithUserID(getHunterID(c))

			sendErrorResponse(c, appErr)
		}
	}
}

// Wrap is shorthand for HandleErrorWrapper()(handler).
func Wrap(handler gin.HandlerFunc) gin.HandlerFunc {
	return HandleErrorWrapper()(handler)
}

// Abort renders err immediately, for use in middleware.
func Abort(c *gin.Context, err *errors.AppError) {
	sendErrorResponse(c, err)
}
