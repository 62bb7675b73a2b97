package file

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"

	"github.com/benoitkugler/pdf/model"
)

func cryptFilterWith(cfm string, length int) model.CrypFilter {
	return model.CrypFilter{CFM: model.Name(cfm), Length: length}
}

func TestDecryptRC4RoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef")
	plain := []byte("the quick brown fox jumps over the lazy dog")

	encrypted, err := decryptRC4Bytes(append([]byte(nil), plain...), key)
	if err != nil {
		t.Fatal(err)
	}
	// RC4 is symmetric: applying the keystream a second time restores the
	// original content.
	decrypted, err := decryptRC4Bytes(encrypted, key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decrypted, plain) {
		t.Fatalf("expected %q, got %q", plain, decrypted)
	}
}

func TestDecryptAESRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	plain := []byte("0123456789abcdef0123456789abcdef") // two AES blocks, no padding needed
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		t.Fatal(err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plain)

	encoded := append(append([]byte(nil), iv...), ciphertext...)

	decrypted, err := decryptAESBytes(encoded, key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decrypted, plain) {
		t.Fatalf("expected %q, got %q", plain, decrypted)
	}
}

func TestSupportedCFEntry(t *testing.T) {
	tests := []struct {
		cfm     string
		length  int
		wantAES bool
		wantErr bool
	}{
		{"", 0, false, false},
		{"V2", 5, false, false},
		{"AESV2", 16, true, false},
		{"AESV3", 32, true, false},
		{"Bogus", 0, false, true},
		{"V2", 20, false, true}, // out of range
	}
	for _, tc := range tests {
		aesFlag, err := supportedCFEntry(cryptFilterWith(tc.cfm, tc.length))
		if tc.wantErr {
			if err == nil {
				t.Errorf("%+v: expected error", tc)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v: unexpected error %s", tc, err)
			continue
		}
		if aesFlag != tc.wantAES {
			t.Errorf("%+v: expected aes=%v, got %v", tc, tc.wantAES, aesFlag)
		}
	}
}
