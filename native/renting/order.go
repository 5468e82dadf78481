package renting

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Paid types supported by half-orders. The value drives fee normalization at
// match time and the repayment schedule afterwards.
const (
	PaidTypeLumpSum uint8 = 0
	PaidTypeDaily   uint8 = 1
	PaidTypeWeekly  uint8 = 2
)

// Order is one party's statement of rental terms. Two compatible half-orders
// are merged into a single fulfilled order that is persisted as the active
// rental record. A half-order authored by the lender carries a zero borrower.
type Order struct {
	Lender   [20]byte
	Borrower [20]byte
	Fee      uint64
	Token    []byte
	DueDate  uint64
	PaidType uint8
}

// Encode returns the canonical RLP encoding of the order. The cancellation
// registry keys on this encoding, so two differently worded payloads that
// decode to the same order share a cancellation entry.
func (o *Order) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(o)
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Token = append([]byte(nil), o.Token...)
	return &clone
}
