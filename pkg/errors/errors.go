package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Domain errors
var (
	ErrTenantNotFound         = errors.New("tenant not found")
	ErrPropertyNotFound       = errors.New("property not found")
	ErrRateNotFound           = errors.New("penalty rate not found")
	ErrTenantAlreadyExists    = errors.New("tenant already exists")
	ErrRentFactorsMissing     = errors.New("rent factors not configured")
	ErrRateScheduleGap        = errors.New("penalty rate schedule has a gap")
	ErrOverpayment            = errors.New("payment exceeds allocatable amount")
	ErrInvalidPaymentAmount   = errors.New("invalid payment amount")
	ErrInvalidEffectiveDate   = errors.New("invalid effective date")
	ErrInvalidRate            = errors.New("invalid penalty rate")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrPaymentLockNotAcquired = errors.New("another payment for this tenant is in progress")
)

// ConfigurationError is returned when a tenant cannot be billed because its
// setup is incomplete. Not retryable.
type ConfigurationError struct {
	TenantID string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for tenant %s: %s", e.TenantID, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrRentFactorsMissing
}

// RateScheduleGapError means the rate history cannot say which penalty rate
// is in force on Date. The history invariant is broken; operators must fix
// the data.
type RateScheduleGapError struct {
	Date   time.Time
	Reason string
}

func (e *RateScheduleGapError) Error() string {
	return fmt.Sprintf("penalty rate history is inconsistent on %s: %s",
		e.Date.Format("2006-01-02"), e.Reason)
}

func (e *RateScheduleGapError) Unwrap() error {
	return ErrRateScheduleGap
}

// OverpaymentError carries the amounts involved in a refused payment.
type OverpaymentError struct {
	TenantID    string
	Received    string
	Allocatable string
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds allocatable %s for tenant %s",
		e.Received, e.Allocatable, e.TenantID)
}

func (e *OverpaymentError) Unwrap() error {
	return ErrOverpayment
}

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeTenantNotFound       = "TENANT_NOT_FOUND"
	ErrCodePropertyNotFound     = "PROPERTY_NOT_FOUND"
	ErrCodeTenantAlreadyExists  = "TENANT_ALREADY_EXISTS"
	ErrCodeConfiguration        = "CONFIGURATION_ERROR"
	ErrCodeRateScheduleGap      = "RATE_SCHEDULE_GAP"
	ErrCodeOverpayment          = "OVERPAYMENT"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeInvalidEffectiveDate = "INVALID_EFFECTIVE_DATE"
	ErrCodeInvalidRate          = "INVALID_RATE"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodePaymentInProgress    = "PAYMENT_IN_PROGRESS"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapTenantNotFound(tenantID string) *BusinessError {
	return NewBusinessError(
		ErrCodeTenantNotFound,
		fmt.Sprintf("Tenant with ID %s not found", tenantID),
		ErrTenantNotFound,
	)
}

func WrapPropertyNotFound(propertyID string) *BusinessError {
	return NewBusinessError(
		ErrCodePropertyNotFound,
		fmt.Sprintf("Property with ID %s not found", propertyID),
		ErrPropertyNotFound,
	)
}

func WrapTenantAlreadyExists(tenantID string) *BusinessError {
	return NewBusinessError(
		ErrCodeTenantAlreadyExists,
		fmt.Sprintf("Tenant with ID %s already exists", tenantID),
		ErrTenantAlreadyExists,
	)
}

func WrapInvalidEffectiveDate(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidEffectiveDate,
		reason,
		ErrInvalidEffectiveDate,
	)
}

func WrapInvalidRate(rate string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRate,
		fmt.Sprintf("Penalty rate %s must be between 0 and 100", rate),
		ErrInvalidRate,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		"request validation failed",
		fmt.Errorf("%w: %v", ErrInvalidRequest, err),
	)
}

func WrapPaymentInProgress(tenantID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentInProgress,
		fmt.Sprintf("A payment for tenant %s is already being processed", tenantID),
		ErrPaymentLockNotAcquired,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrRateNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// or tenant setup the caller has to fix.
func IsClientError(err error) bool {
	return errors.Is(err, ErrRentFactorsMissing) ||
		errors.Is(err, ErrOverpayment) ||
		errors.Is(err, ErrInvalidPaymentAmount) ||
		errors.Is(err, ErrInvalidEffectiveDate) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrTenantAlreadyExists)
}

// IsFatal returns true for invariant violations that need an operator.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRateScheduleGap)
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrRentFactorsMissing), errors.Is(err, ErrOverpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTenantAlreadyExists), errors.Is(err, ErrPaymentLockNotAcquired):
		return http.StatusConflict
	case IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Code extracts the business error code, falling back to a code derived
// from the wrapped sentinel.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	switch {
	case errors.Is(err, ErrTenantNotFound):
		return ErrCodeTenantNotFound
	case errors.Is(err, ErrPropertyNotFound):
		return ErrCodePropertyNotFound
	case errors.Is(err, ErrRentFactorsMissing):
		return ErrCodeConfiguration
	case errors.Is(err, ErrRateScheduleGap):
		return ErrCodeRateScheduleGap
	case errors.Is(err, ErrOverpayment):
		return ErrCodeOverpayment
	case errors.Is(err, ErrInvalidPaymentAmount):
		return ErrCodeInvalidPaymentAmount
	default:
		return ""
	}
}
