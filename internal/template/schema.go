package template

import "strings"

// SchemaVersion identifies the placeholder layout shared by the embedded templates.
// Bump it whenever the templates are regenerated with a different layout.
const SchemaVersion = 1

// Limits baked into the template buffers.
const (
	MinSymbolLength      = 2
	MaxSymbolLength      = 8
	MaxDecimals          = 12
	MaxNameLength        = 32
	MaxDescriptionLength = 320
	MaxIconURLLength     = 320
)

// Field names, as reported in validation and corruption errors.
const (
	FieldDecimals    = "decimals"
	FieldSymbol      = "symbol"
	FieldName        = "name"
	FieldDescription = "description"
	FieldIconURL     = "icon_url"
	FieldWitness     = "witness"
	FieldModule      = "module"
)

// Field describes one fixed-width region inside a template.
type Field struct {
	Name        string
	Placeholder []byte
	Capacity    int
}

// Fields returns the patchable regions of the template for the given symbol length.
// The witness and module markers are sized to the symbol itself.
func Fields(symbolLength int) []Field {
	return []Field{
		{Name: FieldDecimals, Placeholder: []byte("RDECIM"), Capacity: MaxDecimals},
		{Name: FieldSymbol, Placeholder: []byte("RSYMBL"), Capacity: MaxSymbolLength},
		{Name: FieldName, Placeholder: []byte("RNAMEE"), Capacity: MaxNameLength},
		{Name: FieldDescription, Placeholder: []byte("RDESCR"), Capacity: MaxDescriptionLength},
		{Name: FieldIconURL, Placeholder: []byte("RICONU"), Capacity: MaxIconURLLength},
		{Name: FieldWitness, Placeholder: []byte(strings.Repeat("A", symbolLength)), Capacity: symbolLength},
		{Name: FieldModule, Placeholder: []byte(strings.Repeat("a", symbolLength)), Capacity: symbolLength},
	}
}
