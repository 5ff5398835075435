package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// gcmEncrypt seals plaintext with AES-GCM under key. The random nonce is
// prepended to the returned ciphertext; additionalData is authenticated but
// not encrypted.
func gcmEncrypt(plaintext []byte, key []byte, additionalData []byte) (cipherText []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	// Never use more than 2^32 random nonces with a given key because of the risk of a repeat.
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend the nonce to the ciphertext.
	cipherText = aesgcm.Seal(nonce, nonce, plaintext, additionalData)
	return cipherText, nil
}

// gcmDecrypt reverses gcmEncrypt. It fails if the ciphertext or
// additionalData was altered or key is wrong.
func gcmDecrypt(cipherText []byte, key []byte, additionalData []byte) (plainText []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := aesgcm.NonceSize()
	if len(cipherText) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, actualCipherText := cipherText[:nonceSize], cipherText[nonceSize:]
	return aesgcm.Open(nil, nonce, actualCipherText, additionalData)
}
