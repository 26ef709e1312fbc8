package template

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSymbolLength = errors.New("unsupported symbol length")
	ErrTemplateCorrupted       = errors.New("template corrupted")
)

// CorruptedError reports a template whose placeholder layout does not match the schema.
type CorruptedError struct {
	SymbolLength int
	Field        string
	Reason       string
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("template for symbol length %d: field %s: %s", e.SymbolLength, e.Field, e.Reason)
}

func (e *CorruptedError) Unwrap() error {
	return ErrTemplateCorrupted
}

func unsupportedLength(n int) error {
	return fmt.Errorf("%w: %d (want %d-%d)", ErrUnsupportedSymbolLength, n, MinSymbolLength, MaxSymbolLength)
}
