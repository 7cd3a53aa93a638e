package pack

import (
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/apiforge/certpack/api"
)

type uiConstraints struct {
	Required string          `json:"required"`
	Default  json.RawMessage `json:"default,omitempty"`
}

type uiDefinition struct {
	DisplayName string        `json:"displayName"`
	Description string        `json:"description"`
	Tooltip     string        `json:"tooltip,omitempty"`
	Constraints uiConstraints `json:"constraints"`
}

type connectionParam struct {
	Type         string       `json:"type"`
	UIDefinition uiDefinition `json:"uiDefinition"`
}

type policyInstance struct {
	TemplateID string            `json:"templateId"`
	Title      string            `json:"title,omitempty"`
	Parameters map[string]string `json:"parameters"`
}

type propertiesBody struct {
	ConnectionParameters    *orderedmap.OrderedMap[string, connectionParam] `json:"connectionParameters"`
	IconBrandColor          string                                          `json:"iconBrandColor"`
	Capabilities            []string                                        `json:"capabilities"`
	PolicyTemplateInstances []policyInstance                                `json:"policyTemplateInstances"`
}

type propertiesFile struct {
	Properties propertiesBody `json:"properties"`
}

// renderProperties builds apiProperties.json: the authentication descriptor
// rendered as the first connection parameter, each configured connection
// parameter in configuration order, and the policy-template instances
// (present but empty when none are configured).
func renderProperties(cfg *api.ConnectorConfig) ([]byte, error) {
	params := orderedmap.New[string, connectionParam]()

	for _, entry := range authParameterList(cfg.Auth) {
		params.Set(entry.name, entry.param)
	}

	for _, p := range cfg.ConnectionParameters {
		cp := connectionParam{
			Type: p.Type,
			UIDefinition: uiDefinition{
				DisplayName: p.DisplayName,
				Description: p.Description,
				Tooltip:     p.Tooltip,
				Constraints: uiConstraints{Required: strconv.FormatBool(p.Required)},
			},
		}
		if p.Default.Type() != cty.NilType && !p.Default.IsNull() {
			raw, err := ctyjson.Marshal(p.Default, p.Default.Type())
			if err != nil {
				return nil, fmt.Errorf("rendering default for connection parameter %q: %w", p.Name, err)
			}
			cp.UIDefinition.Constraints.Default = raw
		}
		params.Set(p.Name, cp)
	}

	instances := make([]policyInstance, 0, len(cfg.PolicyTemplates))
	for _, t := range cfg.PolicyTemplates {
		title := t.Title
		if title == "" {
			title = t.Name
		}
		instances = append(instances, policyInstance{
			TemplateID: t.TemplateID,
			Title:      title,
			Parameters: t.Parameters,
		})
	}

	capabilities := cfg.Capabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	out := propertiesFile{Properties: propertiesBody{
		ConnectionParameters:    params,
		IconBrandColor:          cfg.IconBrandColor,
		Capabilities:            capabilities,
		PolicyTemplateInstances: instances,
	}}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type namedParam struct {
	name  string
	param connectionParam
}

// authParameterList renders the authentication descriptor as connection
// parameters: a secure key for apiKey, username/password for basic, a secure
// token for oauth2.
func authParameterList(auth *api.AuthConfig) []namedParam {
	ui := uiDefinition{
		DisplayName: auth.DisplayName,
		Description: auth.Description,
		Tooltip:     auth.Tooltip,
		Constraints: uiConstraints{Required: "true"},
	}
	if ui.Tooltip == "" {
		ui.Tooltip = auth.Description
	}

	switch auth.Type {
	case "basic":
		passUI := ui
		passUI.DisplayName = auth.DisplayName + " password"
		return []namedParam{
			{"username", connectionParam{Type: "string", UIDefinition: ui}},
			{"password", connectionParam{Type: "securestring", UIDefinition: passUI}},
		}
	case "oauth2":
		name := auth.ParameterName
		if name == "" {
			name = "token"
		}
		return []namedParam{{name, connectionParam{Type: "securestring", UIDefinition: ui}}}
	default: // apiKey
		name := auth.ParameterName
		if name == "" {
			name = "api_key"
		}
		return []namedParam{{name, connectionParam{Type: "securestring", UIDefinition: ui}}}
	}
}
