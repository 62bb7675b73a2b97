package file

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rc4"
	"errors"
	"fmt"

	"github.com/benoitkugler/pdf/model"
)

// encrypt holds the information needed to decrypt the strings and streams
// of an encrypted PDF file, once the user or owner password has been
// validated against the /Encrypt dictionary found in the trailer.
type encrypt struct {
	enc model.Encrypt // found in the PDF file
	ID  [2]string     // the two /ID entries found in the trailer

	key []byte // file encryption key, or object-independent key for AES-256
	aes bool
}

// setupEncryption reads the trailer and the Encrypt dictionary, derives the
// file encryption key from the configured password (tried as the user
// password, then as the owner password, for revisions 2 to 4), and installs
// the resulting `encrypt` on `ctx`.
func (ctx *context) setupEncryption() error {
	if ctx.trailer.encrypt == nil { // not encrypted
		return nil
	}

	var info encrypt

	enc, err := ctx.processEncryptDict()
	if err != nil {
		return err
	}
	info.enc = enc

	for i, idO := range ctx.trailer.id {
		if i >= 2 {
			break
		}
		info.ID[i], _ = IsString(idO)
	}

	if enc.StmF != "" && enc.StmF != "Identity" {
		d, ok := enc.CF[enc.StmF]
		if !ok {
			return fmt.Errorf("missing entry for StmF %s in CF encrypt dict", enc.StmF)
		}

		info.aes, err = supportedCFEntry(d)
		if err != nil {
			return err
		}
	}

	std, ok := enc.EncryptionHandler.(model.EncryptionStandard)
	if !ok {
		return errors.New("public-key security handlers are not supported")
	}

	password := ctx.Password

	if std.R >= 5 {
		// revision 5/6: AES-256, key derived directly from SHA-256 hashes,
		// no per-object key derivation.
		h := &model.AESSecurityHandler{}
		key, ok := h.AuthenticatePasswords(password, password, std)
		if !ok {
			return errors.New("incorrect password")
		}
		info.key = key
		info.aes = true
	} else {
		h := enc.NewRC4SecurityHandler(info.ID[0], std.R, std.DontEncryptMetadata)
		key, ok := h.AuthUserPassword(password, std.O, std.U)
		if !ok {
			key, ok = h.AuthOwnerPassword(password, std.O, std.U)
		}
		if !ok {
			return errors.New("incorrect password")
		}
		info.key = key
	}

	ctx.enc = &info
	return nil
}

func (enc encrypt) decryptKey(objNumber, generationNumber int) []byte {
	if enc.enc.EncryptionHandler != nil {
		if std, ok := enc.enc.EncryptionHandler.(model.EncryptionStandard); ok && std.R >= 5 {
			// AES-256: the file key is used directly for every object.
			return enc.key
		}
	}

	b := append(append([]byte(nil), enc.key...),
		byte(objNumber), byte(objNumber>>8), byte(objNumber>>16),
		byte(generationNumber), byte(generationNumber>>8),
	)

	if enc.aes {
		b = append(b, "sAlT"...)
	}

	dk := md5Sum(b)

	l := len(enc.key) + 5
	if l < 16 {
		return dk[:l]
	}

	return dk[:]
}

// supportedCFEntry returns true if AES should be used,
// or an error is the fields are invalid
func supportedCFEntry(d model.CrypFilter) (bool, error) {
	cfm := d.CFM
	if cfm != "" && cfm != "V2" && cfm != "AESV2" && cfm != "AESV3" {
		return false, fmt.Errorf("invalid CFM entry %s", cfm)
	}

	// don't check for d.AuthEvent since :
	// If this filter is used as the value of StrF or StmF in the encryption
	// dictionary (see Table 20), the conforming reader shall ignore this key
	// and behave as if the value is DocOpen.

	if l := d.Length; l != 0 && (l < 5 || l > 16) && l != 32 {
		return false, fmt.Errorf("invalid Length entry %d", l)
	}

	return cfm == "AESV2" || cfm == "AESV3", nil
}

func (ctx *context) decryptStream(content []byte, ref model.ObjIndirectRef) ([]byte, error) {
	key := ctx.enc.decryptKey(ref.ObjectNumber, ref.GenerationNumber)

	if ctx.enc.aes {
		return decryptAESBytes(content, key)
	}

	return decryptRC4Bytes(content, key)
}

func decryptRC4Bytes(buf, key []byte) ([]byte, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}

	c.XORKeyStream(buf, buf)
	return buf, nil
}

func decryptAESBytes(b, key []byte) ([]byte, error) {
	if len(b) < aes.BlockSize {
		return nil, errors.New("decryptAESBytes: ciphertext too short")
	}

	if len(b)%aes.BlockSize > 0 {
		return nil, errors.New("decryptAESBytes: ciphertext not a multiple of block size")
	}

	cb, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	copy(iv, b[:aes.BlockSize])

	data := b[aes.BlockSize:]
	mode := cipher.NewCBCDecrypter(cb, iv)
	mode.CryptBlocks(data, data)

	// Remove padding.
	// Note: For some reason not all AES ciphertexts are padded.
	if len(data) > 0 && data[len(data)-1] <= 0x10 {
		e := len(data) - int(data[len(data)-1])
		data = data[:e]
	}

	return data, nil
}

// decryptObject recursively walks `o`, decrypting every string it contains
// using the per-object key derived from `ref`. Streams are not handled here:
// they go through decryptStream, applied to the raw stream bytes directly.
func (enc encrypt) decryptObject(o model.Object, ref model.ObjIndirectRef) (model.Object, error) {
	key := enc.decryptKey(ref.ObjectNumber, ref.GenerationNumber)

	var err error
	switch o := o.(type) {
	case model.ObjHexLiteral:
		var plain []byte
		if enc.aes {
			plain, err = decryptAESBytes([]byte(o), key)
		} else {
			plain, err = decryptRC4Bytes([]byte(o), key)
		}
		if err != nil {
			return nil, err
		}
		return model.ObjHexLiteral(plain), nil
	case model.ObjStringLiteral:
		var plain []byte
		if enc.aes {
			plain, err = decryptAESBytes([]byte(o), key)
		} else {
			plain, err = decryptRC4Bytes([]byte(o), key)
		}
		if err != nil {
			return nil, err
		}
		return model.ObjStringLiteral(plain), nil
	case model.ObjDict:
		for k, v := range o {
			o[k], err = enc.decryptObject(v, ref)
			if err != nil {
				return nil, err
			}
		}
		return o, nil
	case model.ObjArray:
		for i, v := range o {
			o[i], err = enc.decryptObject(v, ref)
			if err != nil {
				return nil, err
			}
		}
		return o, nil
	default:
		return o, nil
	}
}

// used only for the encrypt dict, where all object should probably be direct
func (ctx *context) res(obj model.Object) model.Object {
	out, _ := ctx.resolve(obj)
	return out
}

func (ctx *context) processEncryptDict() (model.Encrypt, error) {
	var out model.Encrypt

	encryptO, err := ctx.resolve(ctx.trailer.encrypt)
	if err != nil {
		return out, err
	}
	d, _ := encryptO.(model.ObjDict)

	out.Filter, _ = ctx.res(d["Filter"]).(model.ObjName)
	out.SubFilter, _ = ctx.res(d["SubFilter"]).(model.ObjName)

	v, _ := ctx.res(d["V"]).(model.ObjInt)
	out.V = model.EncryptionAlgorithm(v)

	length, _ := ctx.res(d["Length"]).(model.ObjInt)
	if length%8 != 0 {
		return out, fmt.Errorf("field Length must be a multiple of 8")
	}
	out.Length = uint8(length / 8)

	cf, _ := ctx.res(d["CF"]).(model.ObjDict)
	out.CF = make(map[model.ObjName]model.CrypFilter, len(cf))
	for name, c := range cf {
		out.CF[model.ObjName(name)] = ctx.processCryptFilter(c)
	}
	out.StmF, _ = ctx.res(d["StmF"]).(model.ObjName)
	out.StrF, _ = ctx.res(d["StrF"]).(model.ObjName)
	out.EFF, _ = ctx.res(d["EFF"]).(model.ObjName)

	p, _ := ctx.res(d["P"]).(model.ObjInt)
	out.P = model.UserPermissions(p)

	// subtypes
	if out.Filter == "Standard" {
		out.EncryptionHandler, err = ctx.processStandardSecurityHandler(d)
		if err != nil {
			return out, err
		}
	} else {
		out.EncryptionHandler = ctx.processPublicKeySecurityHandler(d)
	}

	return out, nil
}

func (ctx *context) processStandardSecurityHandler(dict model.ObjDict) (model.EncryptionStandard, error) {
	var out model.EncryptionStandard
	r_, _ := ctx.res(dict["R"]).(model.ObjInt)
	out.R = uint8(r_)

	o, _ := IsString(ctx.res(dict["O"]))
	u, _ := IsString(ctx.res(dict["U"]))

	// Revisions 2 through 4 write a plain 32-byte hash; revisions 5 and 6
	// append an 8-byte validation salt and an 8-byte key salt (48 bytes
	// total).
	if len(o) != 32 && len(o) != 48 {
		return out, fmt.Errorf("expected 32 or 48-length byte string for entry O, got %d bytes", len(o))
	}
	copy(out.O[:], o)

	if len(u) != 32 && len(u) != 48 {
		return out, fmt.Errorf("expected 32 or 48-length byte string for entry U, got %d bytes", len(u))
	}
	copy(out.U[:], u)

	if oe, ok := IsString(ctx.res(dict["OE"])); ok {
		copy(out.OE[:], oe)
	}
	if ue, ok := IsString(ctx.res(dict["UE"])); ok {
		copy(out.UE[:], ue)
	}
	if perms, ok := IsString(ctx.res(dict["Perms"])); ok {
		copy(out.Perms[:], perms)
	}

	if meta, ok := ctx.res(dict["EncryptMetadata"]).(model.ObjBool); ok {
		out.DontEncryptMetadata = !bool(meta)
	}
	return out, nil
}

func (ctx *context) processPublicKeySecurityHandler(dict model.ObjDict) model.EncryptionPublicKey {
	rec, _ := ctx.res(dict["Recipients"]).(model.ObjArray)
	out := make(model.EncryptionPublicKey, len(rec))
	for i, re := range rec {
		out[i], _ = IsString(ctx.res(re))
	}
	return out
}

func (ctx *context) processCryptFilter(crypt model.Object) model.CrypFilter {
	cryptDict, _ := ctx.res(crypt).(model.ObjDict)
	var out model.CrypFilter
	out.CFM, _ = ctx.res(cryptDict["CFM"]).(model.ObjName)
	out.AuthEvent, _ = ctx.res(cryptDict["AuthEvent"]).(model.ObjName)
	l, _ := ctx.res(cryptDict["Length"]).(model.ObjInt)
	out.Length = int(l)
	recipients := ctx.res(cryptDict["Recipients"])
	if rec, ok := IsString(recipients); ok {
		out.Recipients = []string{rec}
	} else if ar, ok := recipients.(model.ObjArray); ok {
		out.Recipients = make([]string, len(ar))
		for i, re := range ar {
			out.Recipients[i], _ = IsString(ctx.res(re))
		}
	}
	if enc, ok := ctx.res(cryptDict["EncryptMetadata"]).(model.ObjBool); ok {
		out.DontEncryptMetadata = !bool(enc)
	}
	return out
}
