package state

import (
	"encoding/binary"

	"rentchain/native/renting"
)

// Rental engine state. Active records are keyed by (borrower, token), the
// cancellation set by the canonical order encoding, and the scheduler buckets
// by block height.

var (
	rentActivePrefix    = []byte("renting/active/")
	rentCancelPrefix    = []byte("renting/cancel/")
	rentMaturityPrefix  = []byte("renting/due/")
	rentRepaymentPrefix = []byte("renting/repay/")
)

func rentActiveKey(borrower [20]byte, tokenID []byte) []byte {
	buf := make([]byte, 0, len(rentActivePrefix)+len(borrower)+1+len(tokenID))
	buf = append(buf, rentActivePrefix...)
	buf = append(buf, borrower[:]...)
	buf = append(buf, ':')
	return append(buf, tokenID...)
}

func rentCancelKey(encoded []byte) []byte {
	buf := make([]byte, 0, len(rentCancelPrefix)+len(encoded))
	buf = append(buf, rentCancelPrefix...)
	return append(buf, encoded...)
}

func rentHeightKey(prefix []byte, height uint64) []byte {
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[len(prefix):], height)
	return buf
}

// ActiveOrder returns the open rental for the (borrower, token) pair.
func (m *Manager) ActiveOrder(borrower [20]byte, tokenID []byte) (*renting.Order, bool, error) {
	order := new(renting.Order)
	ok, err := m.KVGet(rentActiveKey(borrower, tokenID), order)
	if err != nil || !ok {
		return nil, false, err
	}
	return order, true, nil
}

// PutActiveOrder stores the fulfilled order under its (borrower, token) key.
func (m *Manager) PutActiveOrder(order *renting.Order) error {
	return m.KVPut(rentActiveKey(order.Borrower, order.Token), order)
}

// RemoveActiveOrder closes the rental record for the pair.
func (m *Manager) RemoveActiveOrder(borrower [20]byte, tokenID []byte) error {
	return m.KVDelete(rentActiveKey(borrower, tokenID))
}

// CanceledOrder reports whether the canonical encoding was withdrawn.
func (m *Manager) CanceledOrder(encoded []byte) (bool, error) {
	return m.KVHas(rentCancelKey(encoded))
}

// PutCanceledOrder inserts the order into the permanent cancellation set.
func (m *Manager) PutCanceledOrder(encoded []byte, order *renting.Order) error {
	return m.KVPut(rentCancelKey(encoded), order)
}

// MaturityBucket returns the orders maturing at the height.
func (m *Manager) MaturityBucket(height uint64) ([]*renting.Order, error) {
	var orders []*renting.Order
	if _, err := m.KVGet(rentHeightKey(rentMaturityPrefix, height), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PutMaturityBucket overwrites the maturity bucket at the height.
func (m *Manager) PutMaturityBucket(height uint64, orders []*renting.Order) error {
	return m.KVPut(rentHeightKey(rentMaturityPrefix, height), orders)
}

// RemoveMaturityBucket clears the maturity bucket after its sweep.
func (m *Manager) RemoveMaturityBucket(height uint64) error {
	return m.KVDelete(rentHeightKey(rentMaturityPrefix, height))
}

// RepaymentBucket returns the installments due at the height.
func (m *Manager) RepaymentBucket(height uint64) ([]*renting.Order, error) {
	var orders []*renting.Order
	if _, err := m.KVGet(rentHeightKey(rentRepaymentPrefix, height), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PutRepaymentBucket overwrites the repayment bucket at the height.
func (m *Manager) PutRepaymentBucket(height uint64, orders []*renting.Order) error {
	return m.KVPut(rentHeightKey(rentRepaymentPrefix, height), orders)
}

// RemoveRepaymentBucket clears the repayment bucket after its sweep.
func (m *Manager) RemoveRepaymentBucket(height uint64) error {
	return m.KVDelete(rentHeightKey(rentRepaymentPrefix, height))
}
