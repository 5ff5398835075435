// Package casefile reads and writes share documents of the form
//
//	{"keys": {"n": 4, "k": 3}, "1": {"base": "10", "value": "4"}, ...}
//
// in JSON or YAML. Every key other than "keys" is a share index.
package casefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/izouxv/goShamir/shamir"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a share document.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

const keysEntry = "keys"

var (
	// ErrMissingKeys is returned when the document has no "keys" entry or it lacks n or k.
	ErrMissingKeys = errors.New(`missing "keys" entry`)
	// ErrBadShareKey is returned when a share key is not a decimal integer.
	ErrBadShareKey = errors.New("share key is not an integer")
	// ErrMissingValue is returned when a share has no value.
	ErrMissingValue = errors.New("share has no value")
	// ErrUnknownFormat is returned by ParseFormat for a name other than json or yaml.
	ErrUnknownFormat = errors.New("unknown document format")
)

// flexInt accepts both 10 and "10".
type flexInt int

func (f *flexInt) set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*f = flexInt(n)
	return nil
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return f.set(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*f = flexInt(n)
	return nil
}

func (f *flexInt) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	return f.set(node.Value)
}

// entry holds either the "keys" object or a share; unused fields stay zero.
type entry struct {
	N     *flexInt `json:"n,omitempty" yaml:"n,omitempty"`
	K     *flexInt `json:"k,omitempty" yaml:"k,omitempty"`
	Base  flexInt  `json:"base,omitempty" yaml:"base,omitempty"`
	Value string   `json:"value,omitempty" yaml:"value,omitempty"`
}

// Parse decodes a share document. Shares are ordered by increasing index and
// the instance gets a fresh random ID.
func Parse(data []byte, format Format) (*shamir.Instance, error) {
	var raw map[string]entry
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", format, err)
	}

	keys, ok := raw[keysEntry]
	if !ok || keys.N == nil || keys.K == nil {
		return nil, ErrMissingKeys
	}

	in := &shamir.Instance{
		ID: uuid.New().String(),
		N:  int(*keys.N),
		K:  int(*keys.K),
	}
	for key, e := range raw {
		if key == keysEntry {
			continue
		}
		x, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadShareKey, key)
		}
		if e.Value == "" {
			return nil, fmt.Errorf("%w: %d", ErrMissingValue, x)
		}
		in.Shares = append(in.Shares, shamir.Share{X: x, Base: int(e.Base), Value: e.Value})
	}
	sort.Slice(in.Shares, func(i, j int) bool { return in.Shares[i].X < in.Shares[j].X })

	return in, nil
}

// ParseFormat maps a format name to a Format. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks the format from a file extension; anything that is not
// .yaml or .yml is treated as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Load reads and parses a share document from disk.
func Load(path string) (*shamir.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	in, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

type keysDoc struct {
	N int `json:"n" yaml:"n"`
	K int `json:"k" yaml:"k"`
}

type shareDoc struct {
	Base  string `json:"base" yaml:"base"`
	Value string `json:"value" yaml:"value"`
}

// Marshal encodes an instance back into a share document. The ID is not
// part of the format and is dropped.
func Marshal(in *shamir.Instance, format Format) ([]byte, error) {
	doc := make(map[string]any, len(in.Shares)+1)
	doc[keysEntry] = keysDoc{N: in.N, K: in.K}
	for _, s := range in.Shares {
		doc[strconv.FormatInt(s.X, 10)] = shareDoc{Base: strconv.Itoa(s.Base), Value: s.Value}
	}
	if format == YAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
