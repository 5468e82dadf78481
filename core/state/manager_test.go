package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"rentchain/native/renting"
	"rentchain/storage"
)

func newTestManager() *Manager {
	return NewManager(storage.NewMemDB())
}

func TestAccountRoundTrip(t *testing.T) {
	manager := newTestManager()
	addr := [20]byte{0x01}

	account, err := manager.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), account.Nonce)
	require.Zero(t, account.Balance.Sign(), "fresh accounts start at zero balance")

	account.Nonce = 7
	account.Balance = big.NewInt(12345)
	require.NoError(t, manager.PutAccount(addr, account))

	loaded, err := manager.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(7), loaded.Nonce)
	require.Equal(t, int64(12345), loaded.Balance.Int64())
}

func TestKVDeleteAbsentKey(t *testing.T) {
	manager := newTestManager()
	require.NoError(t, manager.KVDelete([]byte("never-written")))

	ok, err := manager.KVHas([]byte("never-written"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenStateRoundTrip(t *testing.T) {
	manager := newTestManager()
	tokenID := []byte{0xaa, 0xbb}
	alice := [20]byte{0x01}
	bob := [20]byte{0x02}

	_, ok, err := manager.TokenOwner(tokenID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, manager.SetTokenOwner(tokenID, alice))
	owner, ok, err := manager.TokenOwner(tokenID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice, owner)

	require.NoError(t, manager.SetTokenCustodian(tokenID, bob))
	custodian, ok, err := manager.TokenCustodian(tokenID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, bob, custodian)

	require.NoError(t, manager.RemoveTokenCustodian(tokenID))
	_, ok, err = manager.TokenCustodian(tokenID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, manager.SetTokenURI(tokenID, []byte("ipfs://art")))
	uri, ok, err := manager.TokenURI(tokenID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("ipfs://art"), uri)

	require.NoError(t, manager.SetOwnedTokens(alice, [][]byte{tokenID}))
	owned, err := manager.OwnedTokens(alice)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, tokenID, owned[0])

	require.NoError(t, manager.SetTokenApprovals(tokenID, [][20]byte{alice, bob}))
	approved, ok, err := manager.TokenApprovals(tokenID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, [][20]byte{alice, bob}, approved)

	_, ok, err = manager.OperatorApproval(alice, bob)
	require.NoError(t, err)
	require.False(t, ok, "unwritten pairs are distinguishable from revoked ones")

	require.NoError(t, manager.SetOperatorApproval(alice, bob, true))
	flag, ok, err := manager.OperatorApproval(alice, bob)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, flag)

	require.NoError(t, manager.SetTotalTokens(42))
	total, err := manager.TotalTokens()
	require.NoError(t, err)
	require.Equal(t, uint64(42), total)
}

func TestRentalStateRoundTrip(t *testing.T) {
	manager := newTestManager()
	order := &renting.Order{
		Lender:   [20]byte{0x01},
		Borrower: [20]byte{0x02},
		Fee:      15,
		Token:    []byte{0xaa, 0xbb},
		DueDate:  1_800_000_000,
		PaidType: renting.PaidTypeDaily,
	}

	_, ok, err := manager.ActiveOrder(order.Borrower, order.Token)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, manager.PutActiveOrder(order))
	loaded, ok, err := manager.ActiveOrder(order.Borrower, order.Token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, order, loaded)

	require.NoError(t, manager.RemoveActiveOrder(order.Borrower, order.Token))
	_, ok, err = manager.ActiveOrder(order.Borrower, order.Token)
	require.NoError(t, err)
	require.False(t, ok)

	encoded, err := order.Encode()
	require.NoError(t, err)
	canceled, err := manager.CanceledOrder(encoded)
	require.NoError(t, err)
	require.False(t, canceled)

	require.NoError(t, manager.PutCanceledOrder(encoded, order))
	canceled, err = manager.CanceledOrder(encoded)
	require.NoError(t, err)
	require.True(t, canceled)
}

func TestSchedulerBucketsAreIndependent(t *testing.T) {
	manager := newTestManager()
	order := &renting.Order{
		Lender:   [20]byte{0x01},
		Borrower: [20]byte{0x02},
		Fee:      5,
		Token:    []byte{0xaa},
		DueDate:  1_800_000_000,
		PaidType: renting.PaidTypeDaily,
	}
	const height = uint64(400)

	// Maturity and repayment buckets at the same height live under distinct
	// keys.
	require.NoError(t, manager.PutMaturityBucket(height, []*renting.Order{order}))
	repayments, err := manager.RepaymentBucket(height)
	require.NoError(t, err)
	require.Empty(t, repayments)

	require.NoError(t, manager.PutRepaymentBucket(height, []*renting.Order{order, order}))
	maturities, err := manager.MaturityBucket(height)
	require.NoError(t, err)
	require.Len(t, maturities, 1)

	require.NoError(t, manager.RemoveMaturityBucket(height))
	maturities, err = manager.MaturityBucket(height)
	require.NoError(t, err)
	require.Empty(t, maturities)

	repayments, err = manager.RepaymentBucket(height)
	require.NoError(t, err)
	require.Len(t, repayments, 2)
	require.NoError(t, manager.RemoveRepaymentBucket(height))
}

func TestKVRoundTrip(t *testing.T) {
	manager := newTestManager()

	type record struct {
		Name  []byte
		Count uint64
	}
	stored := record{Name: []byte("bucket"), Count: 9}
	require.NoError(t, manager.KVPut([]byte("records/1"), stored))

	var loaded record
	ok, err := manager.KVGet([]byte("records/1"), &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stored, loaded)

	ok, err = manager.KVGet([]byte("records/2"), &loaded)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = manager.KVGet(nil, &loaded)
	require.Error(t, err)
}
