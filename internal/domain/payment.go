package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money was received. Wire code 1|2|3.
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota + 1
	PaymentMethodCheque
	PaymentMethodOnline
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodCheque:
		return "cheque"
	case PaymentMethodOnline:
		return "online"
	default:
		return fmt.Sprintf("PaymentMethod(%d)", int(m))
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodOnline:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod accepts either the wire code or the name.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "cash":
		return PaymentMethodCash, nil
	case "2", "cheque", "check":
		return PaymentMethodCheque, nil
	case "3", "online":
		return PaymentMethodOnline, nil
	default:
		return 0, fmt.Errorf("unknown payment method %q", s)
	}
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid payment method %d", int(m))
	}
	return json.Marshal(int(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var parsed PaymentMethod
	var err error
	switch v := raw.(type) {
	case float64:
		parsed, err = ParsePaymentMethod(fmt.Sprintf("%d", int(v)))
	case string:
		parsed, err = ParsePaymentMethod(v)
	default:
		err = fmt.Errorf("invalid payment method %s", string(data))
	}
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) { return int64(m), nil }

func (m *PaymentMethod) Scan(src interface{}) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("cannot scan %T into PaymentMethod", src)
	}
	*m = PaymentMethod(v)
	if !m.Valid() {
		return fmt.Errorf("invalid payment method %d", v)
	}
	return nil
}

// PaymentType classifies what a payment settled. Derived from its allocation.
type PaymentType int

const (
	PaymentTypeRent PaymentType = iota + 1
	PaymentTypePenalty
	PaymentTypeOutstanding
	PaymentTypeMixed
)

func (t PaymentType) String() string {
	switch t {
	case PaymentTypeRent:
		return "rent"
	case PaymentTypePenalty:
		return "penalty"
	case PaymentTypeOutstanding:
		return "outstanding"
	case PaymentTypeMixed:
		return "mixed"
	default:
		return fmt.Sprintf("PaymentType(%d)", int(t))
	}
}

func (t PaymentType) MarshalJSON() ([]byte, error) { return json.Marshal(int(t)) }

func (t *PaymentType) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = PaymentType(v)
	return nil
}

func (t PaymentType) Value() (driver.Value, error) { return int64(t), nil }

func (t *PaymentType) Scan(src interface{}) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("cannot scan %T into PaymentType", src)
	}
	*t = PaymentType(v)
	return nil
}

// Bucket is one of the three obligations a payment can settle
type Bucket string

const (
	BucketRent        Bucket = "rent"
	BucketPenalty     Bucket = "penalty"
	BucketOutstanding Bucket = "outstanding"
)

func (b Bucket) Valid() bool {
	switch b {
	case BucketRent, BucketPenalty, BucketOutstanding:
		return true
	default:
		return false
	}
}

// AllocationLine attributes part of a payment to the ledger month it settles.
type AllocationLine struct {
	PaymentID uuid.UUID       `json:"-" db:"payment_id"`
	RentMonth RentMonth       `json:"RENT_MONTH" db:"rent_month"`
	Bucket    Bucket          `json:"BUCKET" db:"bucket"`
	Amount    decimal.Decimal `json:"AMOUNT" db:"amount"`
}

// PaymentEntry is an immutable record of money received
type PaymentEntry struct {
	ID                   uuid.UUID        `json:"PAYMENT_ID" db:"id"`
	TenantID             string           `json:"TENANT_ID" db:"tenant_id"`
	RentMonth            *RentMonth       `json:"RENT_MONTH,omitempty" db:"rent_month"`
	ReceivedAmount       decimal.Decimal  `json:"RECEIVED_AMOUNT" db:"received_amount"`
	RentAllocated        decimal.Decimal  `json:"RENT_ALLOCATED" db:"rent_allocated"`
	PenaltyAllocated     decimal.Decimal  `json:"PENALTY_ALLOCATED" db:"penalty_allocated"`
	OutstandingAllocated decimal.Decimal  `json:"OUTSTANDING_ALLOCATED" db:"outstanding_allocated"`
	PaymentType          PaymentType      `json:"PAYMENT_TYPE" db:"payment_type"`
	PaymentMethod        PaymentMethod    `json:"PAYMENT_METHOD" db:"payment_method"`
	PaymentDate          time.Time        `json:"PAYMENT_DATE" db:"payment_date"`
	ChequeNumber         *string          `json:"CHEQUE_NUMBER,omitempty" db:"cheque_number"`
	BankName             *string          `json:"BANK_NAME,omitempty" db:"bank_name"`
	TransactionID        *string          `json:"TRANSACTION_ID,omitempty" db:"transaction_id"`
	PenaltyWaived        bool             `json:"PENALTY_WAIVED" db:"penalty_waived"`
	Remarks              string           `json:"REMARKS,omitempty" db:"remarks"`
	CreatedAt            time.Time        `json:"CREATED_AT" db:"created_at"`
	Lines                []AllocationLine `json:"ALLOCATIONS" db:"-"`
}

// PaymentAllocation is the proposed split of a payment before it is persisted.
type PaymentAllocation struct {
	TenantID             string           `json:"tenantId"`
	ReceivedAmount       decimal.Decimal  `json:"receivedAmount"`
	RentAllocated        decimal.Decimal  `json:"rentAllocated"`
	PenaltyAllocated     decimal.Decimal  `json:"penaltyAllocated"`
	OutstandingAllocated decimal.Decimal  `json:"outstandingAllocated"`
	Credit               decimal.Decimal  `json:"credit"`
	PaymentType          PaymentType      `json:"paymentType"`
	Lines                []AllocationLine `json:"lines"`
}

type MakePaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	TargetMonth   string          `json:"targetMonth"`
	WaivePenalty  bool            `json:"waivePenalty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" validate:"required,oneof=1 2 3"`
	PaymentDate   string          `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
	ChequeNumber  *string         `json:"chequeNumber" validate:"required_if=PaymentMethod 2"`
	BankName      *string         `json:"bankName"`
	TransactionID *string         `json:"transactionId" validate:"required_if=PaymentMethod 3"`
	Remarks       string          `json:"remarks" validate:"max=500"`
}
