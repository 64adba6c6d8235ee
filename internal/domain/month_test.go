package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRentMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    RentMonth
		wantErr bool
	}{
		{in: "2025-02", want: NewRentMonth(2025, time.February)},
		{in: "2025-02-17", want: NewRentMonth(2025, time.February)},
		{in: "Feb 2025", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRentMonth(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRentMonthArithmetic(t *testing.T) {
	dec := NewRentMonth(2024, time.December)

	assert.Equal(t, NewRentMonth(2025, time.January), dec.Next())
	assert.Equal(t, NewRentMonth(2024, time.November), dec.Prev())
	assert.Equal(t, 14, dec.MonthsUntil(NewRentMonth(2026, time.February)))
	assert.Equal(t, -1, dec.MonthsUntil(dec.Prev()))
	assert.True(t, dec.Before(dec.Next()))
	assert.True(t, dec.Next().After(dec))
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), dec.End())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), NewRentMonth(2025, time.February).End())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), NewRentMonth(2024, time.February).End())
}

func TestRentMonthJSONAndSQL(t *testing.T) {
	m := NewRentMonth(2025, time.March)

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03"`, string(raw))

	var back RentMonth
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, m, back)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), v)

	var scanned RentMonth
	require.NoError(t, scanned.Scan(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, m, scanned)
	require.NoError(t, scanned.Scan([]byte("2025-04-01")))
	assert.Equal(t, NewRentMonth(2025, time.April), scanned)

	var zero RentMonth
	zv, err := zero.Value()
	require.NoError(t, err)
	assert.Nil(t, zv)
}

func TestPaymentMethodJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{in: `1`, want: PaymentMethodCash},
		{in: `"cheque"`, want: PaymentMethodCheque},
		{in: `"ONLINE"`, want: PaymentMethodOnline},
		{in: `"3"`, want: PaymentMethodOnline},
		{in: `7`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var m PaymentMethod
			err := json.Unmarshal([]byte(tt.in), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}

	_, err := json.Marshal(PaymentMethod(0))
	assert.Error(t, err)
}
