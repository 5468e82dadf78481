package renting

import (
	"fmt"
	"math/big"
)

// Block-time schedule. Heights advance one block every six seconds; a
// scheduling "day" spans three minutes of blocks so rental terms resolve on
// short-lived networks.
const (
	MillisecsPerBlock uint64 = 6000
	BlocksPerMinute   uint64 = 60000 / MillisecsPerBlock
	BlocksPerHour     uint64 = BlocksPerMinute * 60
	BlocksPerDay      uint64 = BlocksPerMinute * 3
	BlocksPerWeek     uint64 = BlocksPerDay * 7
	BlocksPerMonth    uint64 = BlocksPerWeek * 4
)

// scheduleOrder registers the maturity bucket entry and, for installment
// orders, a repayment bucket entry per period walking forward from the current
// height until the maturity height is covered.
func (e *Engine) scheduleOrder(order *Order, termDays uint64) error {
	height := e.height()
	target := height + termDays*BlocksPerDay

	bucket, err := e.state.MaturityBucket(target)
	if err != nil {
		return err
	}
	bucket = append(bucket, order.Clone())
	if err := e.state.PutMaturityBucket(target, bucket); err != nil {
		return err
	}

	var step uint64
	switch order.PaidType {
	case PaidTypeDaily:
		step = BlocksPerDay
	case PaidTypeWeekly:
		step = BlocksPerWeek
	}
	if step == 0 {
		return nil
	}
	for current := height + step; ; current += step {
		repayments, err := e.state.RepaymentBucket(current)
		if err != nil {
			return err
		}
		repayments = append(repayments, order.Clone())
		if err := e.state.PutRepaymentBucket(current, repayments); err != nil {
			return err
		}
		if current >= target {
			return nil
		}
	}
}

// OnInitialize sweeps the repayment bucket for the height. Orders whose active
// record is gone were closed earlier and are skipped. A failed installment is
// the default path: custody is forcibly returned to the lender and the rental
// closed. The bucket is cleared unconditionally after the sweep; it is never
// retried.
func (e *Engine) OnInitialize(height uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	orders, err := e.state.RepaymentBucket(height)
	if err != nil {
		return err
	}
	for _, order := range orders {
		_, ok, err := e.state.ActiveOrder(order.Borrower, order.Token)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fee := new(big.Int).SetUint64(order.Fee)
		if err := e.payments.Transfer(order.Borrower, order.Lender, fee, true); err != nil {
			if err := e.repossess(order); err != nil {
				return err
			}
			continue
		}
		e.emit(NewRepaymentEvent(order))
	}
	return e.state.RemoveRepaymentBucket(height)
}

// OnFinalize sweeps the maturity bucket for the height: custody returns to the
// lender, the active record is deleted and a return is signalled. The custody
// move is a no-op when the token already sits with its owner, so a rental
// repossessed at the same height sweeps cleanly.
func (e *Engine) OnFinalize(height uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	orders, err := e.state.MaturityBucket(height)
	if err != nil {
		return err
	}
	for _, order := range orders {
		custodian, held, err := e.custody.CustodianOf(order.Token)
		if err != nil {
			return err
		}
		if held && custodian == order.Borrower {
			if err := e.custody.TransferCustodian(order.Borrower, order.Lender, order.Token); err != nil {
				panic(fmt.Sprintf("renting: maturity custody return failed for token %x: %v", order.Token, err))
			}
		}
		if err := e.state.RemoveActiveOrder(order.Borrower, order.Token); err != nil {
			return err
		}
		e.emit(NewReturnedEvent(order))
	}
	return e.state.RemoveMaturityBucket(height)
}

// repossess forcibly returns custody after a missed installment. There is no
// recovery path when the forced return itself fails, so that case panics
// instead of surfacing an error value.
func (e *Engine) repossess(order *Order) error {
	if err := e.custody.TransferCustodian(order.Borrower, order.Lender, order.Token); err != nil {
		panic(fmt.Sprintf("renting: repossession failed for token %x: %v", order.Token, err))
	}
	e.emit(NewReturnedEvent(order))
	return e.state.RemoveActiveOrder(order.Borrower, order.Token)
}
