package renting

import "errors"

var (
	// ErrNotParticipant is returned when the caller of a match is neither the
	// named lender nor the named borrower.
	ErrNotParticipant = errors.New("renting: caller is neither lender nor borrower")
	// ErrSignatureVerify is returned when the counterparty signature is
	// malformed or does not recover to the counterparty's address.
	ErrSignatureVerify = errors.New("renting: counterparty signature invalid")
	// ErrTokenMismatch is returned when the two half-orders name different
	// tokens.
	ErrTokenMismatch = errors.New("renting: half-orders disagree on token")
	// ErrLenderMismatch is returned when a payload names a lender other than
	// the expected one, or the two halves disagree on the lender.
	ErrLenderMismatch = errors.New("renting: lender identity mismatch")
	// ErrBorrowerMismatch is returned when a payload names a borrower other
	// than the expected one.
	ErrBorrowerMismatch = errors.New("renting: borrower identity mismatch")
	// ErrTimeOver is returned when a due date is not in the future, is
	// missing, or the lender half expires before the borrower half.
	ErrTimeOver = errors.New("renting: due date not usable")
	// ErrTermTooShort is returned when the computed term is not longer than a
	// single day.
	ErrTermTooShort = errors.New("renting: rental term too short")
	// ErrFeeTooLow is returned when a borrower-initiated match offers less
	// than the lender's quoted fee.
	ErrFeeTooLow = errors.New("renting: fee below lender floor")
	// ErrNotQualified is returned when the borrower already rents the token
	// under a later due date.
	ErrNotQualified = errors.New("renting: conflicting active rental for borrower")
	// ErrAlreadyCanceled is returned when either half-order was withdrawn.
	ErrAlreadyCanceled = errors.New("renting: order already canceled")
	// ErrNotOrderOwner is returned when a cancellation payload does not bind
	// to the caller under the declared role.
	ErrNotOrderOwner = errors.New("renting: caller does not own the order")
	// ErrPaidType is returned for paid types outside {0, 1, 2}.
	ErrPaidType = errors.New("renting: unrecognized paid type")
	// ErrCannotTransferCustodian is returned when the custody handoff is
	// refused by the ledger.
	ErrCannotTransferCustodian = errors.New("renting: custody transfer refused")
	// ErrNoActiveRental is returned when an operation targets a borrower/token
	// pair with no open rental.
	ErrNoActiveRental = errors.New("renting: no active rental for borrower and token")
	// ErrNotHolder is returned when a borrower tries to return a token they no
	// longer hold.
	ErrNotHolder = errors.New("renting: caller does not hold the token")
)
