package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "tenant not found", err: WrapTenantNotFound("T-1"), status: http.StatusNotFound, code: ErrCodeTenantNotFound},
		{name: "bare property sentinel", err: fmt.Errorf("lookup: %w", ErrPropertyNotFound), status: http.StatusNotFound, code: ErrCodePropertyNotFound},
		{name: "missing rent factors", err: &ConfigurationError{TenantID: "T-1", Reason: "none"}, status: http.StatusUnprocessableEntity, code: ErrCodeConfiguration},
		{name: "overpayment", err: &OverpaymentError{TenantID: "T-1", Received: "5000.00", Allocatable: "1173.00"}, status: http.StatusUnprocessableEntity, code: ErrCodeOverpayment},
		{name: "duplicate tenant", err: WrapTenantAlreadyExists("T-1"), status: http.StatusConflict, code: ErrCodeTenantAlreadyExists},
		{name: "lock held", err: WrapPaymentInProgress("T-1"), status: http.StatusConflict, code: ErrCodePaymentInProgress},
		{name: "validation", err: WrapValidation(errors.New("bad")), status: http.StatusBadRequest, code: ErrCodeValidation},
		{name: "rate", err: WrapInvalidRate("120"), status: http.StatusBadRequest, code: ErrCodeInvalidRate},
		{name: "schedule gap", err: &RateScheduleGapError{Date: time.Now(), Reason: "more than one rate takes effect"}, status: http.StatusInternalServerError, code: ErrCodeRateScheduleGap},
		{name: "database", err: WrapDatabaseError(errors.New("conn reset")), status: http.StatusInternalServerError, code: ErrCodeDatabaseError},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestClassifiers(t *testing.T) {
	gap := &RateScheduleGapError{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Reason: "more than one rate takes effect"}

	assert.True(t, IsFatal(gap))
	assert.False(t, IsClientError(gap))
	assert.Equal(t, "penalty rate history is inconsistent on 2025-03-01: more than one rate takes effect", gap.Error())

	assert.True(t, IsClientError(&ConfigurationError{TenantID: "T-1"}))
	assert.True(t, IsNotFound(WrapTenantNotFound("T-1")))
	assert.False(t, IsNotFound(WrapDatabaseError(errors.New("x"))))
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
}
