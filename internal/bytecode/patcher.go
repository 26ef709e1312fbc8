package bytecode

import (
	"encoding/base64"
	"strings"

	"coinforge/internal/template"
)

// TemplateSource hands out private copies of compiled coin modules.
type TemplateSource interface {
	BlobFor(symbolLength int) ([]byte, error)
}

type Patcher struct {
	source TemplateSource
}

func NewPatcher(source TemplateSource) *Patcher {
	return &Patcher{source: source}
}

// Patch renders d into the template matching its symbol length. The returned
// blob always has the template's length.
func (p *Patcher) Patch(d TokenDescriptor) ([]byte, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	n := len(d.Symbol)
	blob, err := p.source.BlobFor(n)
	if err != nil {
		return nil, err
	}

	// Resolve every offset before writing so patched values are never searched.
	fields := template.Fields(n)
	offsets := make([]int, len(fields))
	for i, f := range fields {
		at := template.IndexOf(blob, f.Placeholder)
		if at < 0 {
			return nil, &template.CorruptedError{SymbolLength: n, Field: f.Name, Reason: "placeholder not found"}
		}
		if at+f.Capacity > len(blob) {
			return nil, &template.CorruptedError{SymbolLength: n, Field: f.Name, Reason: "region exceeds template"}
		}
		offsets[i] = at
	}

	values := fieldValues(d)
	for i, f := range fields {
		copy(blob[offsets[i]:offsets[i]+f.Capacity], pad(values[f.Name], f.Capacity))
	}
	return blob, nil
}

// PatchBase64 is Patch with the standard base64 encoding applied.
func (p *Patcher) PatchBase64(d TokenDescriptor) (string, error) {
	blob, err := p.Patch(d)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

func fieldValues(d TokenDescriptor) map[string]string {
	return map[string]string{
		template.FieldDecimals:    strings.Repeat("1", d.Decimals),
		template.FieldSymbol:      d.Symbol,
		template.FieldName:        d.Name,
		template.FieldDescription: d.Description,
		template.FieldIconURL:     d.IconURL,
		template.FieldWitness:     strings.ToUpper(d.Symbol),
		template.FieldModule:      strings.ToLower(d.Symbol),
	}
}

func pad(value string, capacity int) []byte {
	out := []byte(value)
	for len(out) < capacity {
		out = append(out, ' ')
	}
	return out[:capacity]
}
