package nft

import "errors"

var (
	// ErrNoneExist is returned when a query targets a token or approval entry
	// that was never written.
	ErrNoneExist = errors.New("nft: record does not exist")
	// ErrNotOwner is returned when a mutation requires the caller to be the
	// token owner.
	ErrNotOwner = errors.New("nft: caller is not the token owner")
	// ErrNotCustodian is returned when a custody transfer is attempted by a
	// party that is neither the owner nor the current custodian.
	ErrNotCustodian = errors.New("nft: caller is neither owner nor custodian")
)
