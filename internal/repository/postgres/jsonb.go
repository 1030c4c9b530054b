package postgres

import (
	"encoding/json"
	"fmt"

	"inkwell/internal/richtext"
)

// marshalDoc encodes a content tree for a JSONB column. A nil doc is
// stored as an empty document, never NULL.
func marshalDoc(d *richtext.Doc) ([]byte, error) {
	if d == nil {
		d = richtext.NewDoc()
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	return raw, nil
}

// scanDoc decodes a JSONB content column.
func scanDoc(raw []byte) (*richtext.Doc, error) {
	return richtext.Parse(raw)
}
