package crypto

import (
	"bytes"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()

	encoded := addr.String()
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode address %q: %v", encoded, err)
	}
	if decoded.Prefix() != RentPrefix {
		t.Fatalf("expected prefix %q, got %q", RentPrefix, decoded.Prefix())
	}
	if !bytes.Equal(decoded.Bytes(), addr.Bytes()) {
		t.Fatalf("payload mismatch: %x vs %x", decoded.Bytes(), addr.Bytes())
	}
	if decoded.Raw() != addr.Raw() {
		t.Fatalf("raw form mismatch")
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "rent1", "not-bech32-at-all"} {
		if _, err := DecodeAddress(input); err == nil {
			t.Fatalf("expected decode failure for %q", input)
		}
	}
}

func TestSignAndVerify(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	expected := key.PubKey().Address().Raw()
	message := []byte(`{"fee":5,"due_date":1800000000}`)

	signature, err := key.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(signature) != 65 {
		t.Fatalf("expected 65-byte recoverable signature, got %d bytes", len(signature))
	}
	if !VerifySignature(expected, message, signature) {
		t.Fatalf("signature should verify against the signer's address")
	}
	if VerifySignature(expected, append(message, '!'), signature) {
		t.Fatalf("tampered message must not verify")
	}
	if VerifySignature(expected, message, signature[:64]) {
		t.Fatalf("truncated signature must not verify")
	}

	other, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if VerifySignature(other.PubKey().Address().Raw(), message, signature) {
		t.Fatalf("signature must not verify against another party")
	}
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore key: %v", err)
	}
	if restored.PubKey().Address().Raw() != key.PubKey().Address().Raw() {
		t.Fatalf("restored key must derive the same address")
	}
}
