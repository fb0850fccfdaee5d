package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode is the machine readable code carried by every AppError.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"

	ErrCodeHunterNotFound  ErrorCode = "HUNTER_NOT_FOUND"
	ErrCodeHunterInactive  ErrorCode = "HUNTER_INACTIVE"
	ErrCodeReserveNotFound ErrorCode = "RESERVE_NOT_FOUND"

	// Booking eligibility denials, in evaluation order.
	ErrCodeSilenceDay           ErrorCode = "SILENCE_DAY"
	ErrCodeOutsideBookingWindow ErrorCode = "OUTSIDE_BOOKING_WINDOW"
	ErrCodeZoneSlotTaken        ErrorCode = "ZONE_SLOT_TAKEN"
	ErrCodeZoneCooldownActive   ErrorCode = "ZONE_COOLDOWN_ACTIVE"
	ErrCodeHarvestLimitReached  ErrorCode = "HARVEST_LIMIT_REACHED"
	ErrCodeQuotaExhausted       ErrorCode = "QUOTA_EXHAUSTED"

	// Ledger and registry
	ErrCodeQuotaRowNotFound ErrorCode = "QUOTA_ROW_NOT_FOUND"
	ErrCodeInvalidRuleShape ErrorCode = "INVALID_RULE_SHAPE"

	// Lottery
	ErrCodeAlreadyDrawn           ErrorCode = "ALREADY_DRAWN"
	ErrCodeRegistrationClosed     ErrorCode = "REGISTRATION_CLOSED"
	ErrCodeDuplicateParticipation ErrorCode = "DUPLICATE_PARTICIPATION"

	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"
	ErrCodeCacheError        ErrorCode = "CACHE_ERROR"
)

// AppError is a typed application error rendered by the HTTP error middleware.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    int64                  `json:"user_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code so errors.Is works against the
// sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) IsNotFound() bool {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeHunterNotFound, ErrCodeReserveNotFound, ErrCodeQuotaRowNotFound:
		return true
	}
	return false
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest || e.Code == ErrCodeInvalidRuleShape
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

func (e *AppError) IsInternal() bool {
	switch e.Code {
	case ErrCodeInternal, ErrCodeDatabaseError, ErrCodeTransactionFailed, ErrCodeCacheError:
		return true
	}
	return false
}

// IsDenial reports whether the error is a recoverable business rejection
// (eligibility, quota or lottery) rather than a fault.
func (e *AppError) IsDenial() bool {
	switch e.Code {
	case ErrCodeSilenceDay, ErrCodeOutsideBookingWindow, ErrCodeZoneSlotTaken,
		ErrCodeZoneCooldownActive, ErrCodeHarvestLimitReached, ErrCodeQuotaExhausted,
		ErrCodeAlreadyDrawn, ErrCodeRegistrationClosed, ErrCodeDuplicateParticipation:
		return true
	}
	return false
}

func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func (e *AppError) WithUserID(userID int64) *AppError {
	e.UserID = userID
	return e
}

// New creates an AppError and captures the caller stack.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// Sentinels for errors.Is comparisons. Never return these directly, they
// share mutable maps; use the constructors.
var (
	ErrSilenceDay             = &AppError{Code: ErrCodeSilenceDay}
	ErrOutsideBookingWindow   = &AppError{Code: ErrCodeOutsideBookingWindow}
	ErrZoneSlotTaken          = &AppError{Code: ErrCodeZoneSlotTaken}
	ErrZoneCooldownActive     = &AppError{Code: ErrCodeZoneCooldownActive}
	ErrHarvestLimitReached    = &AppError{Code: ErrCodeHarvestLimitReached}
	ErrQuotaExhausted         = &AppError{Code: ErrCodeQuotaExhausted}
	ErrQuotaRowNotFound       = &AppError{Code: ErrCodeQuotaRowNotFound}
	ErrInvalidRuleShape       = &AppError{Code: ErrCodeInvalidRuleShape}
	ErrAlreadyDrawn           = &AppError{Code: ErrCodeAlreadyDrawn}
	ErrRegistrationClosed     = &AppError{Code: ErrCodeRegistrationClosed}
	ErrDuplicateParticipation = &AppError{Code: ErrCodeDuplicateParticipation}
)

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

func NewHunterNotFoundError(hunterID int64) *AppError {
	return New(ErrCodeHunterNotFound, fmt.Sprintf("Hunter not found: %d", hunterID)).
		WithDetail("hunter_id", hunterID)
}

func NewReserveNotFoundError(reserveID string) *AppError {
	return New(ErrCodeReserveNotFound, fmt.Sprintf("Reserve not found: %s", reserveID)).
		WithDetail("reserve_id", reserveID)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithDetail("reason", reason)
}

func NewConflictError(resource, reason string) *AppError {
	return New(ErrCodeConflict, fmt.Sprintf("Conflict with %s: %s", resource, reason)).
		WithDetail("resource", resource).
		WithDetail("reason", reason)
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewSilenceDayError(huntDate time.Time) *AppError {
	return New(ErrCodeSilenceDay, fmt.Sprintf("%s is a silence day", huntDate.Format("2006-01-02"))).
		WithDetail("hunt_date", huntDate.Format("2006-01-02")).
		WithDetail("weekday", huntDate.Weekday().String())
}

func NewOutsideBookingWindowError(openHour, closeHour int) *AppError {
	return New(ErrCodeOutsideBookingWindow,
		fmt.Sprintf("Bookings are accepted between %02d:00 and %02d:00 for the next day only", openHour, closeHour)).
		WithDetail("open_hour", openHour).
		WithDetail("close_hour", closeHour)
}

func NewZoneSlotTakenError(zoneID int64, huntDate time.Time, slot string) *AppError {
	return New(ErrCodeZoneSlotTaken, fmt.Sprintf("Zone %d is already booked on %s (%s)", zoneID, huntDate.Format("2006-01-02"), slot)).
		WithDetail("zone_id", zoneID).
		WithDetail("hunt_date", huntDate.Format("2006-01-02")).
		WithDetail("time_slot", slot)
}

func NewZoneCooldownActiveError(zoneID int64, waitUntil time.Time) *AppError {
	return New(ErrCodeZoneCooldownActive, fmt.Sprintf("Zone %d is in cooldown until %s", zoneID, waitUntil.Format(time.RFC3339))).
		WithDetail("zone_id", zoneID).
		WithDetail("wait_until", waitUntil)
}

func NewHarvestLimitReachedError(species, period string, count, max int) *AppError {
	return New(ErrCodeHarvestLimitReached, fmt.Sprintf("Harvest limit reached for %s: %d/%d this %s", species, count, max, period)).
		WithDetail("species", species).
		WithDetail("period", period).
		WithDetail("count", count).
		WithDetail("max", max)
}

func NewQuotaRowNotFoundError(reserveID, species, category string) *AppError {
	return New(ErrCodeQuotaRowNotFound, fmt.Sprintf("No quota row for %s/%s", species, category)).
		WithDetail("reserve_id", reserveID).
		WithDetail("species", species).
		WithDetail("category", category)
}

func NewQuotaExhaustedError(species, category string, available int) *AppError {
	return New(ErrCodeQuotaExhausted, fmt.Sprintf("Quota exhausted for %s/%s", species, category)).
		WithDetail("species", species).
		WithDetail("category", category).
		WithDetail("available", available)
}

func NewInvalidRuleShapeError(ruleType, reason string) *AppError {
	return New(ErrCodeInvalidRuleShape, fmt.Sprintf("Invalid %s rule: %s", ruleType, reason)).
		WithDetail("rule_type", ruleType).
		WithDetail("reason", reason)
}

func NewAlreadyDrawnError(lotteryID int64) *AppError {
	return New(ErrCodeAlreadyDrawn, fmt.Sprintf("Lottery %d has already been drawn", lotteryID)).
		WithDetail("lottery_id", lotteryID)
}

func NewRegistrationClosedError(lotteryID int64, start, end time.Time) *AppError {
	return New(ErrCodeRegistrationClosed, fmt.Sprintf("Registration for lottery %d is closed", lotteryID)).
		WithDetail("lottery_id", lotteryID).
		WithDetail("registration_start", start).
		WithDetail("registration_end", end)
}

func NewDuplicateParticipationError(lotteryID, hunterID int64) *AppError {
	return New(ErrCodeDuplicateParticipation, fmt.Sprintf("Hunter %d already joined lottery %d", hunterID, lotteryID)).
		WithDetail("lottery_id", lotteryID).
		WithDetail("hunter_id", hunterID)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError unwraps err looking for an AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil {
		return nil, false
	}
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
