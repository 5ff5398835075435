package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Sha3Hash converts a message to a hash value using SHA3-256.
func Sha3Hash(message []byte) ([]byte, error) {
	sha := sha3.New256()
	_, err := sha.Write(message)
	if err != nil {
		return nil, err
	}
	return sha.Sum(nil), nil
}

// ShortHash returns the first 8 bytes of the SHA3-256 digest, hex encoded.
// It identifies data in logs and is not meant as a commitment.
func ShortHash(message []byte) (string, error) {
	sum, err := Sha3Hash(message)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:8]), nil
}
