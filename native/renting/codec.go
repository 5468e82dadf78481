package renting

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"rentchain/crypto"
)

// parseOrder decodes a signed key-value payload into a canonical Order and
// binds the named identities against the expected keys for each role.
//
// The lender key in the payload must match expectedLender when one is
// supplied; with a zero expectedLender the payload's lender is accepted
// verbatim (the cancellation path uses this, since there the borrower proves
// ownership of the order rather than the lender's identity). The borrower key
// is only inspected when expectedBorrower is non-zero — lender-authored
// half-orders carry no borrower.
//
// Unrecognized keys are ignored. due_date is required and must lie strictly in
// the future at decode time.
func (e *Engine) parseOrder(expectedLender, expectedBorrower [20]byte, payload []byte) (*Order, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("renting: decode order payload: %w", err)
	}
	order := &Order{}
	var zero [20]byte

	if raw, ok := fields["lender"]; ok {
		addr, err := decodeIdentity(raw)
		if err != nil {
			return nil, err
		}
		if expectedLender != zero && addr != expectedLender {
			return nil, ErrLenderMismatch
		}
		order.Lender = addr
	}
	if raw, ok := fields["borrower"]; ok && expectedBorrower != zero {
		addr, err := decodeIdentity(raw)
		if err != nil {
			return nil, err
		}
		if addr != expectedBorrower {
			return nil, ErrBorrowerMismatch
		}
		order.Borrower = addr
	}
	if raw, ok := fields["fee"]; ok {
		var fee uint64
		if err := json.Unmarshal(raw, &fee); err != nil {
			return nil, fmt.Errorf("renting: decode fee: %w", err)
		}
		order.Fee = fee
	}
	if raw, ok := fields["token"]; ok {
		token, err := decodeToken(raw)
		if err != nil {
			return nil, err
		}
		order.Token = token
	}
	raw, ok := fields["due_date"]
	if !ok {
		return nil, ErrTimeOver
	}
	var dueDate uint64
	if err := json.Unmarshal(raw, &dueDate); err != nil {
		return nil, fmt.Errorf("renting: decode due_date: %w", err)
	}
	if dueDate <= e.now() {
		return nil, ErrTimeOver
	}
	order.DueDate = dueDate
	if raw, ok := fields["paid_type"]; ok {
		var paidType uint8
		if err := json.Unmarshal(raw, &paidType); err != nil {
			return nil, fmt.Errorf("renting: decode paid_type: %w", err)
		}
		if paidType > PaidTypeWeekly {
			return nil, ErrPaidType
		}
		order.PaidType = paidType
	}
	return order, nil
}

func decodeIdentity(raw json.RawMessage) ([20]byte, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return [20]byte{}, fmt.Errorf("renting: decode identity: %w", err)
	}
	addr, err := crypto.DecodeAddress(strings.TrimSpace(encoded))
	if err != nil {
		return [20]byte{}, fmt.Errorf("renting: decode identity: %w", err)
	}
	return addr.Raw(), nil
}

func decodeToken(raw json.RawMessage) ([]byte, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("renting: decode token: %w", err)
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(encoded), "0x")
	token, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("renting: decode token: %w", err)
	}
	return token, nil
}
