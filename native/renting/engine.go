package renting

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"time"

	"rentchain/core/events"
	"rentchain/core/types"
	"rentchain/crypto"
)

var errNilState = errors.New("renting engine: state not configured")

const secondsPerDay = 86400

type engineState interface {
	ActiveOrder(borrower [20]byte, tokenID []byte) (*Order, bool, error)
	PutActiveOrder(order *Order) error
	RemoveActiveOrder(borrower [20]byte, tokenID []byte) error
	CanceledOrder(encoded []byte) (bool, error)
	PutCanceledOrder(encoded []byte, order *Order) error
	MaturityBucket(height uint64) ([]*Order, error)
	PutMaturityBucket(height uint64, orders []*Order) error
	RemoveMaturityBucket(height uint64) error
	RepaymentBucket(height uint64) ([]*Order, error)
	PutRepaymentBucket(height uint64, orders []*Order) error
	RemoveRepaymentBucket(height uint64) error
}

// CustodyProvider is the one-way capability the rental engine holds over the
// custody ledger. The ledger knows nothing about rentals.
type CustodyProvider interface {
	TransferCustodian(from, to [20]byte, tokenID []byte) error
	OwnerOf(tokenID []byte) ([20]byte, error)
	CustodianOf(tokenID []byte) ([20]byte, bool, error)
}

// Payments is the monetary-transfer collaborator. keepAlive selects the
// existence-preserving transfer mode.
type Payments interface {
	Transfer(from, to [20]byte, amount *big.Int, keepAlive bool) error
}

type rentalEvent struct {
	evt *types.Event
}

func (e rentalEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e rentalEvent) Event() *types.Event { return e.evt }

// Engine matches signed half-orders into rentals, performs the custody
// handoff with the first payment, and resolves installments and maturities as
// block heights arrive.
type Engine struct {
	state    engineState
	custody  CustodyProvider
	payments Payments
	emitter  events.Emitter
	nowFn    func() uint64
	heightFn func() uint64
}

// NewEngine creates a rental engine with a no-op emitter. Callers wire the
// state, custody and payment collaborators before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody wires the custody capability used for handoffs and returns.
func (e *Engine) SetCustody(custody CustodyProvider) { e.custody = custody }

// SetPayments wires the monetary transfer collaborator.
func (e *Engine) SetPayments(payments Payments) { e.payments = payments }

// SetEmitter configures the event emitter. Passing nil resets the emitter to a
// no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests and the node harness, which pins time to block height.
func (e *Engine) SetNowFunc(now func() uint64) {
	if now == nil {
		e.nowFn = func() uint64 { return uint64(time.Now().Unix()) }
		return
	}
	e.nowFn = now
}

// SetHeightFunc overrides the block-height source used when registering
// scheduler buckets.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.heightFn = nil
		return
	}
	e.heightFn = height
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(rentalEvent{evt: event})
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	return e.nowFn()
}

func (e *Engine) height() uint64 {
	if e == nil || e.heightFn == nil {
		return 0
	}
	return e.heightFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.custody == nil {
		return errors.New("renting engine: custody provider not configured")
	}
	if e.payments == nil {
		return errors.New("renting engine: payments not configured")
	}
	return nil
}

// CreateRental turns two signed half-orders into an open rental. The left
// half is always lender-authored; the right half is the accepting side. The
// caller must be one of the two parties, and the signature on the half the
// *other* party authored must verify against that party's key. On success the
// active record and scheduler buckets are written, custody moves to the
// borrower and the first payment is collected.
//
// A payment failure after the custody move is surfaced to the caller without
// rolling custody back; the repayment sweep is the recovery path for the
// installment case.
func (e *Engine) CreateRental(caller, lender, borrower [20]byte, messageLeft, signatureLeft, messageRight, signatureRight []byte) (*Order, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	switch caller {
	case lender:
		if !crypto.VerifySignature(borrower, messageRight, signatureRight) {
			return nil, ErrSignatureVerify
		}
	case borrower:
		if !crypto.VerifySignature(lender, messageLeft, signatureLeft) {
			return nil, ErrSignatureVerify
		}
	default:
		return nil, ErrNotParticipant
	}

	orderLeft, err := e.parseOrder(lender, [20]byte{}, messageLeft)
	if err != nil {
		return nil, err
	}
	orderRight, err := e.parseOrder(lender, borrower, messageRight)
	if err != nil {
		return nil, err
	}

	for _, half := range []*Order{orderLeft, orderRight} {
		encoded, err := half.Encode()
		if err != nil {
			return nil, err
		}
		canceled, err := e.state.CanceledOrder(encoded)
		if err != nil {
			return nil, err
		}
		if canceled {
			return nil, ErrAlreadyCanceled
		}
	}

	fulfilled, termDays, err := e.matchOrders(caller == lender, orderLeft, orderRight)
	if err != nil {
		return nil, err
	}

	if err := e.state.PutActiveOrder(fulfilled); err != nil {
		return nil, err
	}
	if err := e.scheduleOrder(fulfilled, termDays); err != nil {
		return nil, err
	}

	// Handoff: custody first, then exactly one payment. Nothing is committed
	// when the custody transfer is refused.
	if err := e.custody.TransferCustodian(lender, borrower, fulfilled.Token); err != nil {
		return nil, ErrCannotTransferCustodian
	}
	fee := new(big.Int).SetUint64(fulfilled.Fee)
	if err := e.payments.Transfer(borrower, lender, fee, true); err != nil {
		return nil, fmt.Errorf("renting: first payment: %w", err)
	}
	e.emit(NewMatchedEvent(fulfilled))
	return fulfilled.Clone(), nil
}

// matchOrders applies the matching rule and fee normalization, returning the
// fulfilled order together with the term length in whole days.
func (e *Engine) matchOrders(callerIsLender bool, left, right *Order) (*Order, uint64, error) {
	if !bytes.Equal(left.Token, right.Token) {
		return nil, 0, ErrTokenMismatch
	}
	if left.Lender != right.Lender {
		return nil, 0, ErrLenderMismatch
	}
	if left.DueDate < right.DueDate {
		return nil, 0, ErrTimeOver
	}
	// The fee floor protects the lender only when the borrower initiates; a
	// lender submitting their own signed terms consents to them.
	if !callerIsLender && left.Fee > right.Fee {
		return nil, 0, ErrFeeTooLow
	}

	existing, ok, err := e.state.ActiveOrder(right.Borrower, right.Token)
	if err != nil {
		return nil, 0, err
	}
	if ok && right.DueDate < existing.DueDate {
		return nil, 0, ErrNotQualified
	}

	termDays := (right.DueDate - e.now()) / secondsPerDay
	if termDays <= 1 {
		return nil, 0, ErrTermTooShort
	}

	fulfilled := right.Clone()
	switch fulfilled.PaidType {
	case PaidTypeLumpSum:
		fulfilled.Fee = fulfilled.Fee * termDays
	case PaidTypeDaily:
		// Quoted per installment; reused verbatim by every repayment sweep.
	case PaidTypeWeekly:
		// One week's worth regardless of term length. Known to be
		// inconsistent with the lump-sum scaling; changing it changes the
		// economics, so it stays.
		fulfilled.Fee = fulfilled.Fee * 7
	default:
		return nil, 0, ErrPaidType
	}
	return fulfilled, termDays, nil
}

// CancelOrder withdraws one of the caller's own half-orders. The payload is
// re-decoded exactly as at match time with the caller bound to the declared
// role, and the canonical encoding is inserted into the permanent cancellation
// set.
func (e *Engine) CancelOrder(caller [20]byte, message []byte, isLender bool) (*Order, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var order *Order
	var err error
	if isLender {
		order, err = e.parseOrder(caller, [20]byte{}, message)
		if err != nil {
			return nil, err
		}
		if order.Lender != caller {
			return nil, ErrNotOrderOwner
		}
	} else {
		order, err = e.parseOrder([20]byte{}, caller, message)
		if err != nil {
			return nil, err
		}
		if order.Borrower != caller {
			return nil, ErrNotOrderOwner
		}
	}
	encoded, err := order.Encode()
	if err != nil {
		return nil, err
	}
	if err := e.state.PutCanceledOrder(encoded, order); err != nil {
		return nil, err
	}
	e.emit(NewCanceledEvent(caller, isLender, order))
	return order.Clone(), nil
}

// StopRenting lets the borrower hand the token back before maturity. Fees
// already paid are not refunded, and the scheduler skips the remaining
// installments once the active record is gone.
func (e *Engine) StopRenting(caller [20]byte, tokenID []byte) error {
	if err := e.ready(); err != nil {
		return err
	}
	order, ok, err := e.state.ActiveOrder(caller, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoActiveRental
	}
	if caller != order.Borrower {
		return ErrBorrowerMismatch
	}
	custodian, held, err := e.custody.CustodianOf(order.Token)
	if err != nil {
		return err
	}
	if !held || custodian != caller {
		return ErrNotHolder
	}
	if err := e.custody.TransferCustodian(order.Borrower, order.Lender, order.Token); err != nil {
		return ErrCannotTransferCustodian
	}
	if err := e.state.RemoveActiveOrder(order.Borrower, order.Token); err != nil {
		return err
	}
	e.emit(NewStoppedEvent(caller, order))
	return nil
}
