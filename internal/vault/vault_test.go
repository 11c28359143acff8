package vault

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New("test-process-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	for _, plaintext := range []string{
		"",
		"ptlc_AbCdEf123456",
		"https://panel.example.com",
		"unicode ключ 鍵",
	} {
		encrypted, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}
		if !strings.HasPrefix(encrypted, encPrefix) {
			t.Fatalf("expected %s prefix, got %q", encPrefix, encrypted)
		}
		if encrypted == plaintext {
			t.Fatal("ciphertext must differ from plaintext")
		}

		decrypted, err := c.Decrypt(encrypted)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}
		if decrypted != plaintext {
			t.Fatalf("round trip: expected %q, got %q", plaintext, decrypted)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()

	c, err := New("test-process-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	first, err := c.Encrypt("api-key")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	second, err := c.Encrypt("api-key")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct ciphertexts for repeated plaintext")
	}
}

func TestDecryptWithDifferentSecretFails(t *testing.T) {
	t.Parallel()

	a, err := New("secret-a")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	b, err := New("secret-b")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	encrypted, err := a.Encrypt("credential")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	_, err = b.Decrypt(encrypted)
	if err == nil {
		t.Fatal("expected decryption under different secret to fail")
	}
	if !IsDecryptionError(err) {
		t.Fatalf("expected DecryptionError, got %T: %v", err, err)
	}
}

func TestDecryptMalformedValues(t *testing.T) {
	t.Parallel()

	c, err := New("test-process-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	cases := map[string]string{
		"missing prefix":  "plaintext-never-encrypted",
		"bad base64":      encPrefix + "!!!not-base64!!!",
		"truncated":       encPrefix + "QQ==",
		"empty ciphertxt": encPrefix,
	}
	for name, stored := range cases {
		_, err := c.Decrypt(stored)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !IsDecryptionError(err) {
			t.Fatalf("%s: expected DecryptionError, got %T: %v", name, err, err)
		}
	}
}

func TestNewRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := New("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestSameSecretYieldsCompatibleCiphers(t *testing.T) {
	t.Parallel()

	a, err := New("shared-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	b, err := New("shared-secret")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	encrypted, err := a.Encrypt("panel-url")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	decrypted, err := b.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt with second cipher: %v", err)
	}
	if decrypted != "panel-url" {
		t.Fatalf("expected %q, got %q", "panel-url", decrypted)
	}
}
