package state

// Custody ledger state. Keys follow the storage map layout: ownership,
// custody, URI and approvals are per-token, the owner index is per-party and
// the operator approvals are keyed by the (owner, operator) pair.

var (
	nftOwnerPrefix     = []byte("nft/owner/")
	nftCustodianPrefix = []byte("nft/custodian/")
	nftURIPrefix       = []byte("nft/uri/")
	nftOwnedPrefix     = []byte("nft/owned/")
	nftApprovalsPrefix = []byte("nft/approvals/")
	nftOperatorPrefix  = []byte("nft/operator/")
	nftTotalKey        = []byte("nft/total")
)

func nftTokenKey(prefix, tokenID []byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(tokenID))
	buf = append(buf, prefix...)
	return append(buf, tokenID...)
}

func nftOwnedKey(owner [20]byte) []byte {
	buf := make([]byte, 0, len(nftOwnedPrefix)+len(owner))
	buf = append(buf, nftOwnedPrefix...)
	return append(buf, owner[:]...)
}

func nftOperatorKey(owner, operator [20]byte) []byte {
	buf := make([]byte, 0, len(nftOperatorPrefix)+len(owner)+1+len(operator))
	buf = append(buf, nftOperatorPrefix...)
	buf = append(buf, owner[:]...)
	buf = append(buf, ':')
	return append(buf, operator[:]...)
}

// TokenOwner returns the owning party recorded for the token.
func (m *Manager) TokenOwner(tokenID []byte) ([20]byte, bool, error) {
	var owner [20]byte
	ok, err := m.KVGet(nftTokenKey(nftOwnerPrefix, tokenID), &owner)
	return owner, ok, err
}

// SetTokenOwner rewrites the ownership record for the token.
func (m *Manager) SetTokenOwner(tokenID []byte, owner [20]byte) error {
	return m.KVPut(nftTokenKey(nftOwnerPrefix, tokenID), owner)
}

// TokenCustodian returns the custody record for the token. Absence means the
// owner holds the token.
func (m *Manager) TokenCustodian(tokenID []byte) ([20]byte, bool, error) {
	var custodian [20]byte
	ok, err := m.KVGet(nftTokenKey(nftCustodianPrefix, tokenID), &custodian)
	return custodian, ok, err
}

// SetTokenCustodian records a custodian other than the owner.
func (m *Manager) SetTokenCustodian(tokenID []byte, custodian [20]byte) error {
	return m.KVPut(nftTokenKey(nftCustodianPrefix, tokenID), custodian)
}

// RemoveTokenCustodian collapses custody back to the implicit owner-held
// state.
func (m *Manager) RemoveTokenCustodian(tokenID []byte) error {
	return m.KVDelete(nftTokenKey(nftCustodianPrefix, tokenID))
}

// TokenURI returns the stored metadata URI for the token.
func (m *Manager) TokenURI(tokenID []byte) ([]byte, bool, error) {
	var uri []byte
	ok, err := m.KVGet(nftTokenKey(nftURIPrefix, tokenID), &uri)
	return uri, ok, err
}

// SetTokenURI stores the metadata URI for the token.
func (m *Manager) SetTokenURI(tokenID, uri []byte) error {
	return m.KVPut(nftTokenKey(nftURIPrefix, tokenID), uri)
}

// OwnedTokens returns the owner index for the party. Unknown parties own
// nothing.
func (m *Manager) OwnedTokens(owner [20]byte) ([][]byte, error) {
	var tokens [][]byte
	if _, err := m.KVGet(nftOwnedKey(owner), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SetOwnedTokens overwrites the owner index for the party.
func (m *Manager) SetOwnedTokens(owner [20]byte, tokens [][]byte) error {
	return m.KVPut(nftOwnedKey(owner), tokens)
}

// TokenApprovals returns the ordered approval list for the token.
func (m *Manager) TokenApprovals(tokenID []byte) ([][20]byte, bool, error) {
	var approved [][20]byte
	ok, err := m.KVGet(nftTokenKey(nftApprovalsPrefix, tokenID), &approved)
	return approved, ok, err
}

// SetTokenApprovals overwrites the approval list for the token.
func (m *Manager) SetTokenApprovals(tokenID []byte, approved [][20]byte) error {
	return m.KVPut(nftTokenKey(nftApprovalsPrefix, tokenID), approved)
}

// OperatorApproval returns the blanket approval flag for the (owner,
// operator) pair. The middle return reports whether the pair was ever
// written.
func (m *Manager) OperatorApproval(owner, operator [20]byte) (bool, bool, error) {
	var approved bool
	ok, err := m.KVGet(nftOperatorKey(owner, operator), &approved)
	return approved, ok, err
}

// SetOperatorApproval stores the blanket approval flag for the pair.
func (m *Manager) SetOperatorApproval(owner, operator [20]byte, approved bool) error {
	return m.KVPut(nftOperatorKey(owner, operator), approved)
}

// TotalTokens returns the minted-token counter.
func (m *Manager) TotalTokens() (uint64, error) {
	var total uint64
	if _, err := m.KVGet(nftTotalKey, &total); err != nil {
		return 0, err
	}
	return total, nil
}

// SetTotalTokens stores the minted-token counter.
func (m *Manager) SetTotalTokens(total uint64) error {
	return m.KVPut(nftTotalKey, total)
}
