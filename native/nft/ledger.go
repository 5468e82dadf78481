package nft

import (
	"bytes"
	"errors"
	"fmt"

	"rentchain/core/events"
	"rentchain/core/types"
)

var errNilState = errors.New("nft ledger: state not configured")

type ledgerState interface {
	TokenOwner(tokenID []byte) ([20]byte, bool, error)
	SetTokenOwner(tokenID []byte, owner [20]byte) error
	TokenCustodian(tokenID []byte) ([20]byte, bool, error)
	SetTokenCustodian(tokenID []byte, custodian [20]byte) error
	RemoveTokenCustodian(tokenID []byte) error
	TokenURI(tokenID []byte) ([]byte, bool, error)
	SetTokenURI(tokenID []byte, uri []byte) error
	OwnedTokens(owner [20]byte) ([][]byte, error)
	SetOwnedTokens(owner [20]byte, tokens [][]byte) error
	TokenApprovals(tokenID []byte) ([][20]byte, bool, error)
	SetTokenApprovals(tokenID []byte, approved [][20]byte) error
	OperatorApproval(owner, operator [20]byte) (bool, bool, error)
	SetOperatorApproval(owner, operator [20]byte, approved bool) error
	TotalTokens() (uint64, error)
	SetTotalTokens(total uint64) error
}

type nftEvent struct {
	evt *types.Event
}

func (e nftEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e nftEvent) Event() *types.Event { return e.evt }

// Ledger owns the ownership, custody and approval state for every minted
// token. It is the only component allowed to mutate that state; the rental
// engine reaches it through a narrow capability interface.
type Ledger struct {
	state   ledgerState
	emitter events.Emitter
	random  Randomness
}

// NewLedger creates a custody ledger with a no-op emitter and a blake3-backed
// identifier source. Callers can override both.
func NewLedger() *Ledger {
	return &Ledger{
		emitter: events.NoopEmitter{},
		random:  Blake3Randomness{},
	}
}

// SetState configures the state backend used by the ledger.
func (l *Ledger) SetState(state ledgerState) { l.state = state }

// SetEmitter configures the event emitter. Passing nil resets the emitter to a
// no-op implementation.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// SetRandomness overrides the identifier source, primarily for deterministic
// tests.
func (l *Ledger) SetRandomness(random Randomness) {
	if random == nil {
		l.random = Blake3Randomness{}
		return
	}
	l.random = random
}

func (l *Ledger) emit(event *types.Event) {
	if l == nil || l.emitter == nil || event == nil {
		return
	}
	l.emitter.Emit(nftEvent{evt: event})
}

// Mint creates a token for the owner and returns its identifier. The id is
// derived from the randomness source seeded with the current total-supply
// counter, the owner index gains the token and the approval list is seeded
// with the owner itself.
func (l *Ledger) Mint(owner [20]byte) ([]byte, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	total, err := l.state.TotalTokens()
	if err != nil {
		return nil, err
	}
	id := l.random.Random(total)
	tokenID := append([]byte(nil), id[:]...)
	if err := l.state.SetTotalTokens(total + 1); err != nil {
		return nil, err
	}
	if err := l.state.SetTokenOwner(tokenID, owner); err != nil {
		return nil, err
	}
	owned, err := l.state.OwnedTokens(owner)
	if err != nil {
		return nil, err
	}
	owned = append(owned, tokenID)
	if err := l.state.SetOwnedTokens(owner, owned); err != nil {
		return nil, err
	}
	if err := l.state.SetTokenApprovals(tokenID, [][20]byte{owner}); err != nil {
		return nil, err
	}
	l.emit(NewMintedEvent(owner, tokenID))
	return tokenID, nil
}

// TransferOwnership moves the token between owner indexes and rewrites the
// ownership record. Callers must have verified that from currently owns the
// token: a token missing from the source index is a corrupted ledger, and the
// ledger panics rather than mapping that to a recoverable error.
func (l *Ledger) TransferOwnership(from, to [20]byte, tokenID []byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if err := l.state.SetTokenOwner(tokenID, to); err != nil {
		return err
	}
	received, err := l.state.OwnedTokens(to)
	if err != nil {
		return err
	}
	received = append(received, append([]byte(nil), tokenID...))
	if err := l.state.SetOwnedTokens(to, received); err != nil {
		return err
	}
	owned, err := l.state.OwnedTokens(from)
	if err != nil {
		return err
	}
	idx := -1
	for i, id := range owned {
		if bytes.Equal(id, tokenID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("nft ledger: token %x missing from owner index", tokenID))
	}
	// Swap-remove; index order carries no meaning.
	owned[idx] = owned[len(owned)-1]
	owned = owned[:len(owned)-1]
	if err := l.state.SetOwnedTokens(from, owned); err != nil {
		return err
	}
	l.emit(NewTransferredEvent(from, to, tokenID))
	return nil
}

// TransferCustodian hands operational custody of the token to another party.
// Both the owner and the current custodian may initiate the move, so a
// custodian can re-delegate without going through the owner. Handing custody
// back to the owner collapses the record to the implicit "owner holds it"
// state.
func (l *Ledger) TransferCustodian(from, to [20]byte, tokenID []byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	owner, ok, err := l.state.TokenOwner(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoneExist
	}
	if from != owner {
		custodian, held, err := l.state.TokenCustodian(tokenID)
		if err != nil {
			return err
		}
		if !held || custodian != from {
			return ErrNotCustodian
		}
	}
	if to == owner {
		if err := l.state.RemoveTokenCustodian(tokenID); err != nil {
			return err
		}
	} else {
		if err := l.state.SetTokenCustodian(tokenID, to); err != nil {
			return err
		}
	}
	l.emit(NewCustodianEvent(from, to, tokenID))
	return nil
}

// Approve appends the grantee to the token's approval list. Only the owner may
// approve; duplicates are permitted and there is no removal path.
func (l *Ledger) Approve(from, to [20]byte, tokenID []byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	owner, ok, err := l.state.TokenOwner(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoneExist
	}
	if from != owner {
		return ErrNotOwner
	}
	approved, _, err := l.state.TokenApprovals(tokenID)
	if err != nil {
		return err
	}
	approved = append(approved, to)
	if err := l.state.SetTokenApprovals(tokenID, approved); err != nil {
		return err
	}
	l.emit(NewApprovedEvent(from, to, tokenID))
	return nil
}

// SetApproveForAll grants the operator blanket approval over all of the
// caller's tokens.
func (l *Ledger) SetApproveForAll(from, operator [20]byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if err := l.state.SetOperatorApproval(from, operator, true); err != nil {
		return err
	}
	l.emit(NewApprovedForAllEvent(from, operator, true))
	return nil
}

// RevokeApproveForAll clears a blanket operator approval.
func (l *Ledger) RevokeApproveForAll(from, operator [20]byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if err := l.state.SetOperatorApproval(from, operator, false); err != nil {
		return err
	}
	l.emit(NewApprovedForAllEvent(from, operator, false))
	return nil
}

// SetTokenURI stores the metadata URI for the token. Only the owner may set
// it.
func (l *Ledger) SetTokenURI(from [20]byte, tokenID, uri []byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	owner, ok, err := l.state.TokenOwner(tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoneExist
	}
	if from != owner {
		return ErrNotOwner
	}
	if err := l.state.SetTokenURI(tokenID, uri); err != nil {
		return err
	}
	l.emit(NewURIEvent(tokenID, uri))
	return nil
}

// OwnerOf returns the owning party of the token.
func (l *Ledger) OwnerOf(tokenID []byte) ([20]byte, error) {
	if l == nil || l.state == nil {
		return [20]byte{}, errNilState
	}
	owner, ok, err := l.state.TokenOwner(tokenID)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, ErrNoneExist
	}
	return owner, nil
}

// CustodianOf returns the current custodian. A token held by its owner has no
// custodian record and yields ErrNoneExist.
func (l *Ledger) CustodianOf(tokenID []byte) ([20]byte, error) {
	if l == nil || l.state == nil {
		return [20]byte{}, errNilState
	}
	custodian, ok, err := l.state.TokenCustodian(tokenID)
	if err != nil {
		return [20]byte{}, err
	}
	if !ok {
		return [20]byte{}, ErrNoneExist
	}
	return custodian, nil
}

// HolderOf resolves the party physically holding the token: the custodian when
// one is set, the owner otherwise.
func (l *Ledger) HolderOf(tokenID []byte) ([20]byte, error) {
	custodian, err := l.CustodianOf(tokenID)
	if err == nil {
		return custodian, nil
	}
	if !errors.Is(err, ErrNoneExist) {
		return [20]byte{}, err
	}
	return l.OwnerOf(tokenID)
}

// URIOf returns the stored metadata URI for the token.
func (l *Ledger) URIOf(tokenID []byte) ([]byte, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	uri, ok, err := l.state.TokenURI(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoneExist
	}
	return uri, nil
}

// IsApprovedForAll reports whether the operator holds blanket approval from
// the owner. Querying a pair that was never written yields ErrNoneExist.
func (l *Ledger) IsApprovedForAll(owner, operator [20]byte) (bool, error) {
	if l == nil || l.state == nil {
		return false, errNilState
	}
	approved, ok, err := l.state.OperatorApproval(owner, operator)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoneExist
	}
	return approved, nil
}

// ApprovalsOf returns the per-token approval list.
func (l *Ledger) ApprovalsOf(tokenID []byte) ([][20]byte, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	approved, ok, err := l.state.TokenApprovals(tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoneExist
	}
	return approved, nil
}

// TokensOf returns the owner's token index. Unknown owners simply hold no
// tokens.
func (l *Ledger) TokensOf(owner [20]byte) ([][]byte, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	return l.state.OwnedTokens(owner)
}

// TotalTokens returns the number of tokens minted so far.
func (l *Ledger) TotalTokens() (uint64, error) {
	if l == nil || l.state == nil {
		return 0, errNilState
	}
	return l.state.TotalTokens()
}
