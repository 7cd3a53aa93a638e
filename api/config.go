// Package api declares the connector configuration surface: the single
// declarative record that drives filtering, augmentation, and packaging.
// The configuration is read once per run, validated before any generation
// step consumes it, and never mutated.
package api

import "github.com/zclconf/go-cty/cty"

// ConnectorConfig is the root of a connector.hcl file. Attributes are
// decoded leniently (everything optional at the HCL layer) so the validator
// can report every missing field in one pass instead of stopping at the
// first decode diagnostic.
type ConnectorConfig struct {
	Publisher        string   `hcl:"publisher,optional"`
	DisplayName      string   `hcl:"display_name,optional"`
	Description      string   `hcl:"description,optional"`
	IconBrandColor   string   `hcl:"icon_brand_color,optional"`
	SupportEmail     string   `hcl:"support_email,optional"`
	StackOwner       string   `hcl:"stack_owner,optional"`
	Prerequisites    []string `hcl:"prerequisites,optional"`
	KnownLimitations []string `hcl:"known_limitations,optional"`
	Capabilities     []string `hcl:"capabilities,optional"`
	GettingStarted   string   `hcl:"getting_started,optional"`
	FAQ              string   `hcl:"faq,optional"`
	Deployment       string   `hcl:"deployment,optional"`

	Auth                 *AuthConfig            `hcl:"auth,block"`
	ConnectionParameters []*ConnectionParameter `hcl:"connection_parameter,block"`
	PolicyTemplates      []*PolicyTemplate      `hcl:"policy_template,block"`
	Trigger              *TriggerConfig         `hcl:"trigger,block"`
	Endpoints            []*Endpoint            `hcl:"endpoint,block"`
}

// AuthConfig describes how a connection authenticates.
type AuthConfig struct {
	Type          string `hcl:"type,optional"`
	ParameterName string `hcl:"parameter_name,optional"`
	DisplayName   string `hcl:"display_name,optional"`
	Description   string `hcl:"description,optional"`
	Tooltip       string `hcl:"tooltip,optional"`
}

// ConnectionParameter is one ordered connection-parameter descriptor.
type ConnectionParameter struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type,optional"`
	DisplayName string    `hcl:"display_name,optional"`
	Description string    `hcl:"description,optional"`
	Tooltip     string    `hcl:"tooltip,optional"`
	Required    bool      `hcl:"required,optional"`
	Default     cty.Value `hcl:"default,optional"`
}

// PolicyTemplate is one ordered policy-template descriptor. Parameters are
// copied verbatim into the rendered template instance.
type PolicyTemplate struct {
	Name       string            `hcl:"name,label"`
	TemplateID string            `hcl:"template_id,optional"`
	Title      string            `hcl:"title,optional"`
	Parameters map[string]string `hcl:"parameters,optional"`
}

// TriggerConfig identifies the trigger endpoint, its callback parameter, and
// the lifecycle (unsubscribe) endpoint, plus the platform-facing text
// attached during augmentation.
type TriggerConfig struct {
	Method            string `hcl:"method,optional"`
	Path              string `hcl:"path,optional"`
	CallbackParameter string `hcl:"callback_parameter,optional"`
	OperationID       string `hcl:"operation_id,optional"`
	Summary           string `hcl:"summary,optional"`
	Description       string `hcl:"description,optional"`
	Hint              string `hcl:"hint,optional"`

	PayloadSchema      string `hcl:"payload_schema,optional"`
	PayloadDescription string `hcl:"payload_description,optional"`

	LifecycleMethod      string `hcl:"lifecycle_method,optional"`
	LifecyclePath        string `hcl:"lifecycle_path,optional"`
	LifecycleOperationID string `hcl:"lifecycle_operation_id,optional"`
}

// Endpoint is one allow-list entry: an exact (method, path) pair.
type Endpoint struct {
	Method string `hcl:"method,optional"`
	Path   string `hcl:"path,optional"`
}
