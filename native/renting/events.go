package renting

import (
	"encoding/hex"
	"strconv"

	"rentchain/core/types"
)

const (
	EventTypeMatched   = "rental.matched"
	EventTypeCanceled  = "rental.canceled"
	EventTypeStopped   = "rental.stopped"
	EventTypeReturned  = "rental.returned"
	EventTypeRepayment = "rental.repayment"
)

// NewMatchedEvent returns the canonical payload for a freshly opened rental.
func NewMatchedEvent(order *Order) *types.Event {
	return &types.Event{Type: EventTypeMatched, Attributes: orderAttributes(order)}
}

// NewCanceledEvent returns the payload emitted when a half-order is withdrawn.
func NewCanceledEvent(caller [20]byte, isLender bool, order *Order) *types.Event {
	attrs := orderAttributes(order)
	attrs["caller"] = hex.EncodeToString(caller[:])
	attrs["isLender"] = strconv.FormatBool(isLender)
	return &types.Event{Type: EventTypeCanceled, Attributes: attrs}
}

// NewStoppedEvent returns the payload emitted when the borrower ends a rental
// early.
func NewStoppedEvent(caller [20]byte, order *Order) *types.Event {
	attrs := orderAttributes(order)
	attrs["caller"] = hex.EncodeToString(caller[:])
	return &types.Event{Type: EventTypeStopped, Attributes: attrs}
}

// NewReturnedEvent returns the payload emitted when custody goes back to the
// lender, whether at maturity or through repossession.
func NewReturnedEvent(order *Order) *types.Event {
	return &types.Event{Type: EventTypeReturned, Attributes: orderAttributes(order)}
}

// NewRepaymentEvent returns the payload emitted for a settled installment.
func NewRepaymentEvent(order *Order) *types.Event {
	return &types.Event{Type: EventTypeRepayment, Attributes: orderAttributes(order)}
}

func orderAttributes(order *Order) map[string]string {
	attrs := make(map[string]string)
	if order == nil {
		return attrs
	}
	attrs["lender"] = hex.EncodeToString(order.Lender[:])
	attrs["borrower"] = hex.EncodeToString(order.Borrower[:])
	attrs["token"] = hex.EncodeToString(order.Token)
	attrs["fee"] = strconv.FormatUint(order.Fee, 10)
	attrs["dueDate"] = strconv.FormatUint(order.DueDate, 10)
	attrs["paidType"] = strconv.FormatUint(uint64(order.PaidType), 10)
	return attrs
}
