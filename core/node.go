package core

import (
	"errors"
	"log/slog"
	"math/big"

	"rentchain/core/events"
	"rentchain/core/state"
	"rentchain/crypto"
	"rentchain/native/bank"
	"rentchain/native/nft"
	"rentchain/native/renting"
	"rentchain/storage"
)

// Node wires the custody ledger, bank and rental engine to a shared state
// manager and drives them one block height at a time. Within a height every
// operation runs to completion before the next; the node is the single
// logical thread the engines assume.
type Node struct {
	db       storage.Database
	state    *state.Manager
	ledger   *nft.Ledger
	rental   *renting.Engine
	bank     *bank.Engine
	recorder *events.Recorder
	logger   *slog.Logger

	height       uint64
	genesisTime  uint64
	blockSeconds uint64
}

// custodyAdapter exposes the one-way custody capability the rental engine
// depends on. The ledger's "no custodian" error collapses to a boolean so the
// rental engine never imports the ledger package.
type custodyAdapter struct {
	ledger *nft.Ledger
}

func (c custodyAdapter) TransferCustodian(from, to [20]byte, tokenID []byte) error {
	return c.ledger.TransferCustodian(from, to, tokenID)
}

func (c custodyAdapter) OwnerOf(tokenID []byte) ([20]byte, error) {
	return c.ledger.OwnerOf(tokenID)
}

func (c custodyAdapter) CustodianOf(tokenID []byte) ([20]byte, bool, error) {
	custodian, err := c.ledger.CustodianOf(tokenID)
	if err != nil {
		if errors.Is(err, nft.ErrNoneExist) {
			return [20]byte{}, false, nil
		}
		return [20]byte{}, false, err
	}
	return custodian, true, nil
}

// NewNode assembles a node over the provided database. genesisTime anchors
// the logical clock: the chain time at height h is genesisTime plus h block
// intervals.
func NewNode(db storage.Database, genesisTime uint64) *Node {
	manager := state.NewManager(db)
	recorder := events.NewRecorder()

	ledger := nft.NewLedger()
	ledger.SetState(manager)
	ledger.SetEmitter(recorder)

	bankEngine := bank.NewEngine()
	bankEngine.SetState(manager)

	rental := renting.NewEngine()
	rental.SetState(manager)
	rental.SetCustody(custodyAdapter{ledger: ledger})
	rental.SetPayments(bankEngine)
	rental.SetEmitter(recorder)

	n := &Node{
		db:           db,
		state:        manager,
		ledger:       ledger,
		rental:       rental,
		bank:         bankEngine,
		recorder:     recorder,
		logger:       slog.Default(),
		genesisTime:  genesisTime,
		blockSeconds: renting.MillisecsPerBlock / 1000,
	}
	rental.SetNowFunc(n.Now)
	rental.SetHeightFunc(n.Height)
	return n
}

// SetLogger overrides the logger used for block processing.
func (n *Node) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	n.logger = logger
}

// SetRandomness overrides the token-id source, primarily for deterministic
// tests.
func (n *Node) SetRandomness(random nft.Randomness) {
	n.ledger.SetRandomness(random)
}

// Height returns the current block height.
func (n *Node) Height() uint64 { return n.height }

// Now returns the chain time in seconds at the current height.
func (n *Node) Now() uint64 {
	return n.genesisTime + n.height*n.blockSeconds
}

// Ledger exposes the custody ledger for queries.
func (n *Node) Ledger() *nft.Ledger { return n.ledger }

// CommitBlock advances the chain by one height, running the repayment sweep
// at the start of the block and the maturity sweep at its end. It returns the
// events produced since the previous commit, including those emitted by
// operations dispatched within the block.
func (n *Node) CommitBlock() ([]events.Event, error) {
	n.height++
	if err := n.rental.OnInitialize(n.height); err != nil {
		return nil, err
	}
	if err := n.rental.OnFinalize(n.height); err != nil {
		return nil, err
	}
	emitted := n.recorder.Events()
	n.recorder.Reset()
	n.logger.Debug("block committed", "height", n.height, "events", len(emitted))
	return emitted, nil
}

// --- dispatch surface ---

// Mint creates a token owned by the recipient and returns its identifier.
func (n *Node) Mint(to [20]byte) ([]byte, error) {
	return n.ledger.Mint(to)
}

// TransferOwnership moves a token to a new owner. The caller must currently
// own it.
func (n *Node) TransferOwnership(caller, to [20]byte, tokenID []byte) error {
	owner, err := n.ledger.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if owner != caller {
		return nft.ErrNotOwner
	}
	return n.ledger.TransferOwnership(caller, to, tokenID)
}

// SafeTransferOwnership moves a token on behalf of its owner. The caller must
// be the owner or hold blanket operator approval from the source party.
func (n *Node) SafeTransferOwnership(caller, from, to [20]byte, tokenID []byte) error {
	owner, err := n.ledger.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if owner != caller {
		approved, err := n.ledger.IsApprovedForAll(from, caller)
		if err != nil || !approved {
			return nft.ErrNotOwner
		}
	}
	if owner != from {
		return nft.ErrNotOwner
	}
	return n.ledger.TransferOwnership(from, to, tokenID)
}

// TransferCustodian hands custody of a token to another party.
func (n *Node) TransferCustodian(caller, to [20]byte, tokenID []byte) error {
	return n.ledger.TransferCustodian(caller, to, tokenID)
}

// Approve appends a party to the token's approval list.
func (n *Node) Approve(caller, to [20]byte, tokenID []byte) error {
	return n.ledger.Approve(caller, to, tokenID)
}

// ApproveForAll grants blanket operator approval to the account.
func (n *Node) ApproveForAll(caller, operator [20]byte) error {
	return n.ledger.SetApproveForAll(caller, operator)
}

// RevokeApproveForAll clears a blanket operator approval.
func (n *Node) RevokeApproveForAll(caller, operator [20]byte) error {
	return n.ledger.RevokeApproveForAll(caller, operator)
}

// SetTokenURI stores the metadata URI for a token the caller owns.
func (n *Node) SetTokenURI(caller [20]byte, tokenID, uri []byte) error {
	return n.ledger.SetTokenURI(caller, tokenID, uri)
}

// CreateRental matches two signed half-orders into an open rental.
func (n *Node) CreateRental(caller, lender, borrower [20]byte, messageLeft, signatureLeft, messageRight, signatureRight []byte) (*renting.Order, error) {
	return n.rental.CreateRental(caller, lender, borrower, messageLeft, signatureLeft, messageRight, signatureRight)
}

// CancelOrder withdraws one of the caller's own half-orders.
func (n *Node) CancelOrder(caller [20]byte, message []byte, isLender bool) (*renting.Order, error) {
	return n.rental.CancelOrder(caller, message, isLender)
}

// StopRenting returns a rented token to its lender before maturity.
func (n *Node) StopRenting(caller [20]byte, tokenID []byte) error {
	return n.rental.StopRenting(caller, tokenID)
}

// FundAccount credits an address with spendable balance. Used by genesis
// seeding and tests.
func (n *Node) FundAccount(addr [20]byte, amount *big.Int) error {
	return n.bank.Mint(addr, amount)
}

// Balance returns the spendable balance for an address.
func (n *Node) Balance(addr [20]byte) (*big.Int, error) {
	return n.bank.Balance(addr)
}

// AddressFor is a convenience helper mapping a public key to its raw address
// form used across the dispatch surface.
func AddressFor(pub *crypto.PublicKey) [20]byte {
	return pub.Address().Raw()
}
