package nft

import (
	"encoding/hex"
	"strconv"

	"rentchain/core/types"
)

const (
	EventTypeMinted         = "nft.minted"
	EventTypeTransferred    = "nft.transferred"
	EventTypeCustodian      = "nft.custodian"
	EventTypeApproved       = "nft.approved"
	EventTypeApprovedForAll = "nft.approved_for_all"
	EventTypeURI            = "nft.uri"
)

// NewMintedEvent returns the canonical payload for a freshly minted token.
func NewMintedEvent(owner [20]byte, tokenID []byte) *types.Event {
	return &types.Event{Type: EventTypeMinted, Attributes: map[string]string{
		"owner": hex.EncodeToString(owner[:]),
		"token": hex.EncodeToString(tokenID),
	}}
}

// NewTransferredEvent returns the payload emitted on an ownership transfer.
func NewTransferredEvent(from, to [20]byte, tokenID []byte) *types.Event {
	return &types.Event{Type: EventTypeTransferred, Attributes: map[string]string{
		"from":  hex.EncodeToString(from[:]),
		"to":    hex.EncodeToString(to[:]),
		"token": hex.EncodeToString(tokenID),
	}}
}

// NewCustodianEvent returns the payload emitted when custody moves.
func NewCustodianEvent(from, to [20]byte, tokenID []byte) *types.Event {
	return &types.Event{Type: EventTypeCustodian, Attributes: map[string]string{
		"from":  hex.EncodeToString(from[:]),
		"to":    hex.EncodeToString(to[:]),
		"token": hex.EncodeToString(tokenID),
	}}
}

// NewApprovedEvent returns the payload emitted for a per-token approval.
func NewApprovedEvent(from, to [20]byte, tokenID []byte) *types.Event {
	return &types.Event{Type: EventTypeApproved, Attributes: map[string]string{
		"owner":    hex.EncodeToString(from[:]),
		"approved": hex.EncodeToString(to[:]),
		"token":    hex.EncodeToString(tokenID),
	}}
}

// NewApprovedForAllEvent returns the payload emitted when a blanket operator
// approval is granted or revoked.
func NewApprovedForAllEvent(owner, operator [20]byte, approved bool) *types.Event {
	return &types.Event{Type: EventTypeApprovedForAll, Attributes: map[string]string{
		"owner":    hex.EncodeToString(owner[:]),
		"operator": hex.EncodeToString(operator[:]),
		"approved": strconv.FormatBool(approved),
	}}
}

// NewURIEvent returns the payload emitted when a token URI is set.
func NewURIEvent(tokenID, uri []byte) *types.Event {
	return &types.Event{Type: EventTypeURI, Attributes: map[string]string{
		"token": hex.EncodeToString(tokenID),
		"uri":   string(uri),
	}}
}
