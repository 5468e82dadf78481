package state

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"rentchain/core/types"
	"rentchain/storage"
)

// Manager provides typed access to the key-value store backing the node. Keys
// are hashed with keccak256 before hitting the database and values are RLP
// encoded, so module code only ever deals in domain types.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var accountPrefix = []byte("account:")

func kvKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func accountKey(addr [20]byte) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr[:])
	return kvKey(buf)
}

// KVPut stores the provided value under the supplied key using RLP encoding.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(kvKey(key), encoded)
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	hashed := kvKey(key)
	ok, err := m.db.Has(hashed)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	data, err := m.db.Get(hashed)
	if err != nil {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete removes the key from state. Deleting an absent key is not an error;
// the scheduler relies on that when clearing already-swept buckets.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	return m.db.Delete(kvKey(key))
}

// KVHas reports whether the key is present without decoding the value.
func (m *Manager) KVHas(key []byte) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	return m.db.Has(kvKey(key))
}

// GetAccount loads the account stored for the address. Missing accounts are
// returned as zero-balance accounts rather than errors so transfers can target
// fresh addresses.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	key := accountKey(addr)
	ok, err := m.db.Has(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	data, err := m.db.Get(key)
	if err != nil {
		return nil, err
	}
	var stored struct {
		Nonce   uint64
		Balance *big.Int
	}
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	balance := stored.Balance
	if balance == nil {
		balance = big.NewInt(0)
	}
	return &types.Account{Nonce: stored.Nonce, Balance: balance}, nil
}

// PutAccount persists the account under the address key.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	balance := account.Balance
	if balance == nil {
		balance = big.NewInt(0)
	}
	encoded, err := rlp.EncodeToBytes(struct {
		Nonce   uint64
		Balance *big.Int
	}{Nonce: account.Nonce, Balance: balance})
	if err != nil {
		return err
	}
	return m.db.Put(accountKey(addr), encoded)
}
