package model

// adapted from the work of Klemen VODOPIVEC and Kurt Jung

import (
	"crypto/md5"
	"crypto/rc4"
	"encoding/binary"
)

// Reference is an object number, used to derive the per-object RC4/AES key
// from the file encryption key (ISO 32000-1 7.6.2, algorithm 1).
type Reference = int

var padding = [...]byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// UserPermissions is a flag.
// See Table 22 – User access permissions and Table 24 – Public-Key security handler user access permissions
// in the PDF SPEC.
type UserPermissions uint32

const (
	PermissionChangeEncryption UserPermissions = 1 << (2 - 1)  // Permits change of encryption and enables all other permissions.
	PermissionPrint            UserPermissions = 1 << (3 - 1)  // Print the document.
	PermissionModify           UserPermissions = 1 << (4 - 1)  // Modify the contents of the document by operations other than those controlled by bits 6, 9, and 11.
	PermissionCopy             UserPermissions = 1 << (5 - 1)  // Copy or otherwise extract text and graphics from the document
	PermissionAdd              UserPermissions = 1 << (6 - 1)  // Add or modify text annotations, fill in interactive form fields
	PermissionFill             UserPermissions = 1 << (9 - 1)  // Fill in existing interactive form fields
	PermissionExtract          UserPermissions = 1 << (10 - 1) // Extract text and graphics
	PermissionAssemble         UserPermissions = 1 << (11 - 1) // Assemble the document (insert, rotate, or delete pages and create bookmarks or thumbnail images)
	PermissionPrintDigital     UserPermissions = 1 << (12 - 1) // Print the document to a representation from which a faithful digital copy of the PDF content could be generated.
	allRevision3                               = PermissionChangeEncryption | PermissionPrint | PermissionCopy | PermissionFill | PermissionExtract | PermissionAssemble | PermissionPrintDigital
)

// write u as 4 bytes, low-order byte first.
func (u UserPermissions) bytes() []byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], uint32(u))
	return out[:]
}

// return true if `u` has any of the flags “Security handlers of revision 3 or greater”
// set to 0
func (u UserPermissions) isRevision3() bool {
	b := (u & allRevision3) == allRevision3 // all flags rev 3 are set
	return !b
}

// EncryptionAlgorithm is a code specifying the algorithm to be used in encrypting and
// decrypting the document
type EncryptionAlgorithm uint8

const (
	_ EncryptionAlgorithm = iota
	Key40
	KeyExt // encryption key with length greater than 40
	_
	KeySecurityHandler
)

// Encrypt stores the encryption-related information found in a PDF
// trailer's /Encrypt dictionary.
// Note that encryption with a public key is not supported.
type Encrypt struct {
	EncryptionHandler EncryptionHandler
	Filter            Name
	SubFilter         Name
	V                 EncryptionAlgorithm
	// in bytes, from 5 to 16, optional, default to 5
	// written in pdf as bit length
	Length uint8
	CF     map[Name]CrypFilter // optional
	StmF   Name                // optional
	StrF   Name                // optional
	EFF    Name                // optional
	P      UserPermissions
}

func (e Encrypt) Clone() Encrypt {
	out := e
	if e.EncryptionHandler != nil {
		out.EncryptionHandler = e.EncryptionHandler.Clone()
	}
	if e.CF != nil { // preserve reflet.DeepEqual
		out.CF = make(map[Name]CrypFilter, len(e.CF))
		for k, v := range e.CF {
			out.CF[k] = v.Clone()
		}
	}
	return out
}

type CrypFilter struct {
	CFM       Name // optional
	AuthEvent Name // optional
	Length    int  // optional

	// byte strings, required for public-key security handlers
	// for Crypt filter decode parameter dictionary,
	// a one element array is written in PDF directly as a string
	Recipients []string
	// optional, default to false
	// written in PDF under the key /EncryptMetadata
	DontEncryptMetadata bool
}

// Clone returns a deep copy
func (c CrypFilter) Clone() CrypFilter {
	out := c
	out.Recipients = append([]string(nil), c.Recipients...)
	return out
}

//EncryptionHandler is either EncryptionStandard or EncryptionPublicKey
type EncryptionHandler interface {
	// Clone returns a deep copy, preserving the concrete type.
	Clone() EncryptionHandler
	// crypt transform the incoming `data`, using `n`
	// as the object number of its context, and return the encrypted bytes.
	crypt(n Reference, data []byte) ([]byte, error)
}

// EncryptionPublicKey holds the /Recipients entries of a public-key
// security handler's /Encrypt dictionary.
type EncryptionPublicKey []string

func (e EncryptionPublicKey) Clone() EncryptionHandler {
	return append(EncryptionPublicKey(nil), e...)
}

type EncryptionStandard struct {
	R uint8 // 2, 3, 4, 5 or 6
	// 32 bytes for revision <= 4; the full 48 bytes (hash + validation salt
	// + key salt) are used for revision 5 and 6 (AES-256).
	O [48]byte
	U [48]byte
	// OE and UE hold the AES-256 (revision 5/6) encrypted file key; unused
	// for revision <= 4.
	OE, UE [32]byte
	// Perms holds the encrypted /Perms entry, used to cross-check
	// permissions for revision 5/6.
	Perms [16]byte
	// optional, default value is false
	// written in PDF under the key /EncryptMetadata
	DontEncryptMetadata bool

	// needed to encrypt, but not written in the PDF
	encryptionKey []byte
}

func (e EncryptionStandard) Clone() EncryptionHandler {
	out := e
	out.encryptionKey = append([]byte(nil), e.encryptionKey...)
	return out
}

// crypt encrypts the given `data` using its object number, with the RC4
// algorithm, and returns the result in a new slice (`data` is unchanged).
func (p EncryptionStandard) crypt(n Reference, data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	rc4cipher, _ := rc4.NewCipher(objectEncrytionKey(p.encryptionKey, n, false))
	rc4cipher.XORKeyStream(out, data)
	return out, nil
}

func objectEncrytionKey(baseKey []byte, n Reference, aes bool) []byte {
	var nbuf [4]byte
	binary.LittleEndian.PutUint32(nbuf[:], uint32(n))
	b := append(baseKey, nbuf[0], nbuf[1], nbuf[2], 0, 0) // copy and padding (generation number is 0)
	if aes {
		b = append(b, 0x73, 0x41, 0x6C, 0x54) // append sAlT
	}
	s := md5.Sum(b)
	size := len(baseKey) + 5
	if size > 16 {
		size = 16
	}
	return s[0:size]
}

// padPassword pads (or truncates) `password` to 32 bytes using the standard
// padding string, as required before every RC4 key-derivation step.
func padPassword(password string) (v [32]byte) {
	copy(v[:], append([]byte(password), padding[:]...)[0:32])
	return v
}

// xor19Times applies 19 extra RC4 rounds to `buf` in place, round i keyed by
// startEncKey with every byte XORed with i (Algorithm 3/4/5 step, ISO
// 32000-1 7.6.3.3/7.6.3.4). Since each RC4 round is its own inverse, running
// this again on an already-transformed buffer does NOT invert it unless the
// rounds are replayed in reverse order (see xor19TimesReverse).
func xor19Times(buf []byte, startEncKey []byte) {
	for i := 1; i <= 19; i++ {
		newKey := append([]byte(nil), startEncKey...) // copy to preserve startEncKey
		for j, b := range newKey {
			newKey[j] = b ^ byte(i)
		}
		c, _ := rc4.NewCipher(newKey)
		c.XORKeyStream(buf, buf)
	}
}

// xor19TimesReverse undoes xor19Times, replaying the 19 rounds in reverse
// key order.
func xor19TimesReverse(buf []byte, startEncKey []byte) {
	for i := 19; i >= 1; i-- {
		newKey := append([]byte(nil), startEncKey...)
		for j, b := range newKey {
			newKey[j] = b ^ byte(i)
		}
		c, _ := rc4.NewCipher(newKey)
		c.XORKeyStream(buf, buf)
	}
}

// ------------------------------------------------------------------------------------

// crypt is not supported for the PublicKey security handler
// Thus, this function return the plain data.
func (e EncryptionPublicKey) crypt(n Reference, data []byte) ([]byte, error) {
	return data, nil
}

// func cryptAes(objectKey, data []byte) ([]byte, error) {
// 	// pad data to aes.Blocksize
// 	l := len(data) % aes.BlockSize
// 	var c byte = 0x10
// 	if l > 0 {
// 		c = byte(aes.BlockSize - l)
// 	}
// 	data = append(data, bytes.Repeat([]byte{c}, aes.BlockSize-l)...)
// 	// now, len(data) >= 16 and len(data)%16 == 0

// 	block := make([]byte, aes.BlockSize+len(data)) // room for 16 random bytes
// 	iv := block[:aes.BlockSize]

// 	_, err := io.ReadFull(rand.Reader, iv)
// 	if err != nil {
// 		return nil, err
// 	}

// 	cb, err := aes.NewCipher(objectKey)
// 	if err != nil {
// 		return nil, err
// 	}

// 	mode := cipher.NewCBCEncrypter(cb, iv)
// 	mode.CryptBlocks(block[aes.BlockSize:], data)

// 	return block, nil
// }

// func (s EncryptionPublicKey) generateEncryptionKey(keyLength uint8, cryptMetadata bool) ([]byte, error) {
// 	data := make([]byte, 20) // a)
// 	_, err := io.ReadFull(rand.Reader, data)
// 	if err != nil {
// 		return nil, err
// 	}

// 	for _, rec := range s { // b)
// 		data = append(data, rec...)
// 	}

// 	if !cryptMetadata { // c)
// 		data = append(data, 0xff, 0xff, 0xff, 0xff)
// 	}
// 	sum := sha1.Sum(data)
// 	return sum[0:keyLength], nil
// }
