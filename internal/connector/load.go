// Package connector loads and validates the declarative connector
// configuration that gates every generation step.
package connector

import (
	"fmt"

	"github.com/apiforge/certpack/api"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Load decodes a connector configuration file. HCL syntax and expression
// errors surface as positioned diagnostics; structural completeness is the
// job of Validate, not of decoding.
func Load(path string) (*api.ConnectorConfig, error) {
	var cfg api.ConnectorConfig
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("loading connector config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadBytes decodes an in-memory configuration. The filename selects the
// syntax (.hcl or .json) and labels diagnostics.
func LoadBytes(filename string, src []byte) (*api.ConnectorConfig, error) {
	var cfg api.ConnectorConfig
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("loading connector config %s: %w", filename, err)
	}
	return &cfg, nil
}
