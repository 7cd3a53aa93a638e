package swagger

import (
	"encoding/json"
	"fmt"

	"github.com/ghodss/yaml"
)

// SupportedVersion is the only document version the transforms understand.
const SupportedVersion = "2.0"

// Load parses a down-converted API description from YAML or JSON bytes.
// YAML input is bridged through JSON so both encodings share one decoder.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing API description: %w", err)
	}
	if doc.Paths == nil {
		return nil, fmt.Errorf("parsing API description: no paths object")
	}
	return &doc, nil
}

// MarshalIndentJSON serializes the document as canonical JSON: sorted object
// keys, two-space indent, trailing newline. Two runs over the same document
// produce byte-identical output.
func (d *Document) MarshalIndentJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
