package casefile

import (
	"path/filepath"
	"testing"

	"github.com/izouxv/goShamir/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdata(name string) string {
	return filepath.Join("..", "testdata", name)
}

func TestLoadJSON(t *testing.T) {
	in, err := Load(testdata("testcase1.json"))
	require.NoError(t, err)

	assert.NotEmpty(t, in.ID)
	assert.Equal(t, 4, in.N)
	assert.Equal(t, 3, in.K)
	assert.Equal(t, []shamir.Share{
		{X: 1, Base: 10, Value: "4"},
		{X: 2, Base: 2, Value: "111"},
		{X: 3, Base: 10, Value: "12"},
		{X: 6, Base: 4, Value: "213"},
	}, in.Shares)

	secret, err := in.Reconstruct(shamir.PolicyVerify)
	require.NoError(t, err)
	assert.Equal(t, "3", secret.String())
}

func TestLoadYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Load(testdata("testcase1.json"))
	require.NoError(t, err)
	fromYAML, err := Load(testdata("testcase1.yaml"))
	require.NoError(t, err)

	assert.Equal(t, fromJSON.N, fromYAML.N)
	assert.Equal(t, fromJSON.K, fromYAML.K)
	assert.Equal(t, fromJSON.Shares, fromYAML.Shares)
	assert.NotEqual(t, fromJSON.ID, fromYAML.ID)
}

func TestSharesSortedNumerically(t *testing.T) {
	in, err := Load(testdata("testcase2.json"))
	require.NoError(t, err)
	require.Len(t, in.Shares, 10)
	for i, s := range in.Shares {
		assert.Equal(t, int64(i+1), s.X)
	}

	secret, err := in.Reconstruct(shamir.PolicyRecover)
	require.NoError(t, err)
	assert.Equal(t, "79836264049851", secret.String())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`{"1": {"base": "10", "value": "4"}}`), JSON)
	assert.ErrorIs(t, err, ErrMissingKeys)

	_, err = Parse([]byte(`{"keys": {"n": 2}}`), JSON)
	assert.ErrorIs(t, err, ErrMissingKeys)

	_, err = Parse([]byte(`{"keys": {"n": 1, "k": 1}, "one": {"base": "10", "value": "4"}}`), JSON)
	assert.ErrorIs(t, err, ErrBadShareKey)

	_, err = Parse([]byte(`{"keys": {"n": 1, "k": 1}, "1": {"base": "10"}}`), JSON)
	assert.ErrorIs(t, err, ErrMissingValue)

	_, err = Parse([]byte(`{"keys": {"n": 1, "k": 1}, "1": {"base": "ten", "value": "4"}}`), JSON)
	assert.Error(t, err)

	_, err = Parse([]byte("keys: [1, 2]"), YAML)
	assert.Error(t, err)

	_, err = Load(testdata("missing.json"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	in, err := Load(testdata("testcase2.json"))
	require.NoError(t, err)

	for _, format := range []Format{JSON, YAML} {
		data, err := Marshal(in, format)
		require.NoError(t, err)

		back, err := Parse(data, format)
		require.NoError(t, err, format.String())
		assert.Equal(t, in.N, back.N)
		assert.Equal(t, in.K, back.K)
		assert.Equal(t, in.Shares, back.Shares)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	f, err = ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	for _, s := range []string{"xml", "", "jsonx"} {
		_, err = ParseFormat(s)
		assert.ErrorIs(t, err, ErrUnknownFormat, s)
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, YAML, FormatOf("shares.yaml"))
	assert.Equal(t, YAML, FormatOf("SHARES.YML"))
	assert.Equal(t, JSON, FormatOf("shares.json"))
	assert.Equal(t, JSON, FormatOf("shares"))
}
