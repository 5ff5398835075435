package keystore

import (
	"encoding/json"
	"testing"

	"github.com/izouxv/goShamir/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *shamir.Instance {
	return &shamir.Instance{
		N: 4,
		K: 3,
		Shares: []shamir.Share{
			{X: 1, Base: 10, Value: "4"},
			{X: 2, Base: 2, Value: "111"},
			{X: 3, Base: 10, Value: "12"},
			{X: 6, Base: 4, Value: "213"},
		},
	}
}

func lowCost(t *testing.T) {
	// Use a lower N for faster testing
	originalScryptN := ScryptN
	ScryptN = 2
	t.Cleanup(func() { ScryptN = originalScryptN })
}

func TestSealOpen(t *testing.T) {
	lowCost(t)
	password := "my-secret-password"

	in := sample()
	sealed, err := Seal(in, password)
	require.NoError(t, err)
	require.NotEmpty(t, sealed)

	t.Logf("Bundle JSON: %s", string(sealed))

	opened, err := Open(sealed, password)
	require.NoError(t, err)
	assert.NotEmpty(t, opened.ID)
	assert.Equal(t, in.N, opened.N)
	assert.Equal(t, in.K, opened.K)
	assert.Equal(t, in.Shares, opened.Shares)

	secret, err := opened.Reconstruct(shamir.PolicyVerify)
	require.NoError(t, err)
	assert.Equal(t, "3", secret.String())

	_, err = Open(sealed, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestSealKeepsID(t *testing.T) {
	lowCost(t)
	in := sample()
	in.ID = "vault-7"

	sealed, err := Seal(in, "pw")
	require.NoError(t, err)
	opened, err := Open(sealed, "pw")
	require.NoError(t, err)
	assert.Equal(t, "vault-7", opened.ID)
}

func TestOpenTamperedHeader(t *testing.T) {
	lowCost(t)
	sealed, err := Seal(sample(), "pw")
	require.NoError(t, err)

	var bundle Bundle
	require.NoError(t, json.Unmarshal(sealed, &bundle))
	bundle.K = 2
	tampered, err := json.Marshal(&bundle)
	require.NoError(t, err)

	_, err = Open(tampered, "pw")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	bundle.K = 3
	bundle.Version = 2
	future, err := json.Marshal(&bundle)
	require.NoError(t, err)
	_, err = Open(future, "pw")
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestSealRejectsInvalidInstance(t *testing.T) {
	in := sample()
	in.K = 0
	_, err := Seal(in, "pw")
	assert.ErrorIs(t, err, shamir.ErrInvalidThreshold)
}

func TestGCM(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("shares")

	ct, err := gcmEncrypt(plaintext, key, []byte("header"))
	require.NoError(t, err)
	pt, err := gcmDecrypt(ct, key, []byte("header"))
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)

	_, err = gcmDecrypt(ct, key, []byte("other"))
	assert.Error(t, err)

	_, err = gcmDecrypt(ct[:4], key, []byte("header"))
	assert.Error(t, err)

	_, err = gcmEncrypt(plaintext, key[:7], nil)
	assert.Error(t, err)
}
