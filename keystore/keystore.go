// Package keystore seals a share set under a password so it can be stored or
// handed to a custodian without exposing the share values.
package keystore

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/izouxv/goShamir/shamir"
	"golang.org/x/crypto/scrypt"
)

const (
	keyHeaderKDF = "scrypt"
	cipherName   = "aes-256-gcm"
	version      = 1
)

// ScryptN is the N parameter of Scrypt encryption algorithm, using 2^18 per recommendation for standard security.
// For testing, a smaller value can be used to speed up execution.
var ScryptN = 1 << 18

// ScryptP is the P parameter of Scrypt encryption algorithm, using 1 per recommendation.
var ScryptP = 1

var (
	// ErrInvalidPassword is returned when the password for decryption is incorrect.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrUnsupportedVersion is returned for an envelope written by a newer version.
	ErrUnsupportedVersion = errors.New("unsupported keystore version")
)

// Bundle is the top-level structure for a sealed share file.
type Bundle struct {
	ID      string     `json:"id"`
	Version int        `json:"version"`
	N       int        `json:"n"`
	K       int        `json:"k"`
	Crypto  CryptoJSON `json:"crypto"`
}

// CryptoJSON contains the cryptographic parameters.
type CryptoJSON struct {
	Cipher     string           `json:"cipher"`
	CipherText []byte           `json:"ciphertext"`
	KDF        string           `json:"kdf"`
	KDFParams  ScryptParamsJSON `json:"kdfparams"`
}

// ScryptParamsJSON contains the parameters for the scrypt KDF.
type ScryptParamsJSON struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Dklen int    `json:"dklen"`
	Salt  []byte `json:"salt"`
}

// additionalData binds the clear-text header to the ciphertext.
func (b *Bundle) additionalData() []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%d", b.ID, b.Version, b.N, b.K))
}

// Seal encrypts a share set using a password and scrypt KDF, returning the
// JSON-encoded bundle. The instance ID becomes the bundle ID; a random one is
// generated when it is empty.
func Seal(in *shamir.Instance, password string) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	payload, err := shamir.MarshalInstance(in)
	if err != nil {
		return nil, err
	}

	// Generate a random salt for scrypt
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	// We derive a 32-byte key for AES-256-GCM.
	const dklen = 32
	derivedKey, err := scrypt.Key([]byte(password), salt, ScryptN, 8, ScryptP, dklen)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	bundle := &Bundle{
		ID:      id,
		Version: version,
		N:       in.N,
		K:       in.K,
	}

	cipherText, err := gcmEncrypt(payload, derivedKey, bundle.additionalData())
	if err != nil {
		return nil, err
	}
	bundle.Crypto = CryptoJSON{
		Cipher:     cipherName,
		CipherText: cipherText,
		KDF:        keyHeaderKDF,
		KDFParams: ScryptParamsJSON{
			N:     ScryptN,
			R:     8,
			P:     ScryptP,
			Dklen: dklen,
			Salt:  salt,
		},
	}

	return json.MarshalIndent(bundle, "", "  ")
}

// Open decrypts a sealed bundle using a password.
func Open(data []byte, password string) (*shamir.Instance, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}

	if bundle.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, bundle.Version)
	}
	if bundle.Crypto.KDF != keyHeaderKDF {
		return nil, fmt.Errorf("unsupported KDF: %s", bundle.Crypto.KDF)
	}
	if bundle.Crypto.Cipher != cipherName {
		return nil, fmt.Errorf("unsupported cipher: %s", bundle.Crypto.Cipher)
	}

	// Re-derive the key from the password and stored salt
	kdfParams := bundle.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), kdfParams.Salt, kdfParams.N, kdfParams.R, kdfParams.P, kdfParams.Dklen)
	if err != nil {
		return nil, err
	}

	// GCM authentication fails for a wrong password and for a tampered header alike.
	payload, err := gcmDecrypt(bundle.Crypto.CipherText, derivedKey, bundle.additionalData())
	if err != nil {
		return nil, ErrInvalidPassword
	}

	in, err := shamir.UnmarshalInstance(payload)
	if err != nil {
		return nil, err
	}
	in.ID = bundle.ID
	return in, nil
}
