package template

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"sync"

	bin "github.com/gagliardetto/binary"
)

//go:embed templates/*.b64
var templateFS embed.FS

// Catalog holds one compiled coin module per supported symbol length.
// It is read-only once built.
type Catalog struct {
	blobs [MaxSymbolLength - MinSymbolLength + 1][]byte
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded templates.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load()
	})
	return defaultCatalog, defaultErr
}

// Load decodes and validates the embedded templates.
func Load() (*Catalog, error) {
	raw := make(map[int][]byte, MaxSymbolLength-MinSymbolLength+1)
	for n := MinSymbolLength; n <= MaxSymbolLength; n++ {
		name := fmt.Sprintf("templates/coin_%d.b64", n)
		encoded, err := templateFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		blob, err := base64.StdEncoding.DecodeString(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		raw[n] = blob
	}
	return NewCatalog(raw)
}

// NewCatalog builds a catalog from decoded templates keyed by symbol length.
func NewCatalog(raw map[int][]byte) (*Catalog, error) {
	c := &Catalog{}
	for n := MinSymbolLength; n <= MaxSymbolLength; n++ {
		blob, ok := raw[n]
		if !ok || len(blob) == 0 {
			return nil, &CorruptedError{SymbolLength: n, Field: FieldModule, Reason: "template missing"}
		}
		if err := Validate(n, blob); err != nil {
			return nil, err
		}
		c.blobs[n-MinSymbolLength] = bytes.Clone(blob)
	}
	for n := range raw {
		if n < MinSymbolLength || n > MaxSymbolLength {
			return nil, unsupportedLength(n)
		}
	}
	return c, nil
}

// BlobFor returns a private copy of the template for the given symbol length.
func (c *Catalog) BlobFor(symbolLength int) ([]byte, error) {
	if symbolLength < MinSymbolLength || symbolLength > MaxSymbolLength {
		return nil, unsupportedLength(symbolLength)
	}
	return bytes.Clone(c.blobs[symbolLength-MinSymbolLength]), nil
}

// Size returns the byte length of the template for the given symbol length.
func (c *Catalog) Size(symbolLength int) (int, error) {
	if symbolLength < MinSymbolLength || symbolLength > MaxSymbolLength {
		return 0, unsupportedLength(symbolLength)
	}
	return len(c.blobs[symbolLength-MinSymbolLength]), nil
}

// Validate checks that every schema field occurs exactly once in blob and is
// preceded by the ULEB128 length prefix of its capacity.
func Validate(symbolLength int, blob []byte) error {
	for _, f := range Fields(symbolLength) {
		offsets := Occurrences(blob, f.Placeholder)
		switch {
		case len(offsets) == 0:
			return &CorruptedError{SymbolLength: symbolLength, Field: f.Name, Reason: "placeholder not found"}
		case len(offsets) > 1:
			return &CorruptedError{SymbolLength: symbolLength, Field: f.Name, Reason: fmt.Sprintf("placeholder found %d times", len(offsets))}
		}
		at := offsets[0]
		if at+f.Capacity > len(blob) {
			return &CorruptedError{SymbolLength: symbolLength, Field: f.Name, Reason: "region exceeds template"}
		}
		prefix, err := lengthPrefix(f.Capacity)
		if err != nil {
			return fmt.Errorf("encode length prefix for %s: %w", f.Name, err)
		}
		if at < len(prefix) || !bytes.Equal(blob[at-len(prefix):at], prefix) {
			return &CorruptedError{SymbolLength: symbolLength, Field: f.Name, Reason: fmt.Sprintf("missing length prefix %x", prefix)}
		}
	}
	return nil
}

// IndexOf returns the offset of the first occurrence of token in blob, or -1.
func IndexOf(blob, token []byte) int {
	return bytes.Index(blob, token)
}

// Occurrences returns every start offset of token in blob, overlapping matches included.
func Occurrences(blob, token []byte) []int {
	if len(token) == 0 {
		return nil
	}
	var out []int
	for start := 0; start+len(token) <= len(blob); {
		i := bytes.Index(blob[start:], token)
		if i < 0 {
			break
		}
		out = append(out, start+i)
		start += i + 1
	}
	return out
}

func lengthPrefix(capacity int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBinEncoder(&buf).WriteUVarInt(capacity); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
