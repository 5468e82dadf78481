package bank

import (
	"errors"
	"fmt"
	"math/big"

	"rentchain/core/types"
)

var (
	errNilState = errors.New("bank: state not configured")
	// ErrInsufficientBalance is returned when the payer cannot cover the
	// transfer amount. The rental scheduler treats it as a missed installment.
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	// ErrKeepAlive is returned when a keep-alive transfer would leave the payer
	// below the existential minimum.
	ErrKeepAlive = errors.New("bank: transfer would reap payer account")
)

// existentialBalance is the minimum balance an account must retain for a
// keep-alive transfer to go through.
var existentialBalance = big.NewInt(1)

type accountState interface {
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// Engine moves balances between accounts. It is the monetary-transfer
// collaborator the rental engine and scheduler call into; it knows nothing
// about tokens or orders.
type Engine struct {
	state accountState
}

// NewEngine creates a bank engine. Callers wire the state backend via
// SetState.
func NewEngine() *Engine {
	return &Engine{}
}

// SetState configures the account state backend.
func (e *Engine) SetState(state accountState) { e.state = state }

// Transfer moves amount from the payer to the payee. With keepAlive set the
// transfer refuses to drop the payer below the existential minimum, matching
// the existence-preserving mode of the host ledger.
func (e *Engine) Transfer(from, to [20]byte, amount *big.Int, keepAlive bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("bank: invalid transfer amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	payer, err := e.state.GetAccount(from)
	if err != nil {
		return err
	}
	payee, err := e.state.GetAccount(to)
	if err != nil {
		return err
	}
	if payer.Balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	remaining := new(big.Int).Sub(payer.Balance, amount)
	if keepAlive && remaining.Cmp(existentialBalance) < 0 {
		return ErrKeepAlive
	}
	payer.Balance = remaining
	payee.Balance = new(big.Int).Add(payee.Balance, amount)
	if err := e.state.PutAccount(from, payer); err != nil {
		return err
	}
	return e.state.PutAccount(to, payee)
}

// Mint credits the address with new balance. It exists for genesis seeding and
// tests; the rental core never mints money.
func (e *Engine) Mint(addr [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("bank: mint amount must be positive")
	}
	account, err := e.state.GetAccount(addr)
	if err != nil {
		return err
	}
	account.Balance = new(big.Int).Add(account.Balance, amount)
	return e.state.PutAccount(addr, account)
}

// Balance returns the current balance for the address.
func (e *Engine) Balance(addr [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	account, err := e.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(account.Balance), nil
}
