package model

import "testing"

func TestRC4RoundTrip(t *testing.T) {
	enc := &Encrypt{P: PermissionPrint | PermissionCopy, Length: 16}
	fileID := "abcdefghijklmnop"

	const userPassword, ownerPassword = "user-pwd", "owner-pwd"

	for _, revision := range []uint8{2, 3, 4} {
		setup := enc.NewRC4SecurityHandler(fileID, revision, false)
		ownerHash := setup.generateOwnerHash(userPassword, ownerPassword)

		encryptionKey := setup.generateEncryptionKey(userPassword, ownerHash)
		userHash := setup.generateUserHash(encryptionKey)

		checker := enc.NewRC4SecurityHandler(fileID, revision, false)

		if _, ok := checker.AuthUserPassword(userPassword, ownerHash, userHash); !ok {
			t.Errorf("revision %d: expected user password to authenticate", revision)
		}
		if _, ok := checker.AuthUserPassword("wrong", ownerHash, userHash); ok {
			t.Errorf("revision %d: wrong user password unexpectedly authenticated", revision)
		}

		key, ok := checker.AuthOwnerPassword(ownerPassword, ownerHash, userHash)
		if !ok {
			t.Errorf("revision %d: expected owner password to authenticate", revision)
		}
		if len(key) != len(encryptionKey) {
			t.Errorf("revision %d: expected derived key of length %d, got %d", revision, len(encryptionKey), len(key))
		}
		if _, ok := checker.AuthOwnerPassword("wrong", ownerHash, userHash); ok {
			t.Errorf("revision %d: wrong owner password unexpectedly authenticated", revision)
		}
	}
}
