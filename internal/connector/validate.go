package connector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/apiforge/certpack/api"
)

// FieldError names one offending configuration field and what is wrong with it.
type FieldError struct {
	Path   string
	Detail string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Detail
}

// ConfigError aggregates every structural error found in a validation pass,
// so the operator can fix the configuration in one edit cycle. It is always
// fatal to the pipeline.
type ConfigError struct {
	Fields []FieldError
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid connector configuration (%d problems):", len(e.Fields))
	for _, f := range e.Fields {
		b.WriteString("\n  - ")
		b.WriteString(f.String())
	}
	return b.String()
}

var (
	brandColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	authTypes   = map[string]bool{"apiKey": true, "basic": true, "oauth2": true}
	httpMethods = map[string]bool{
		"get": true, "put": true, "post": true, "delete": true,
		"options": true, "head": true, "patch": true,
	}
)

// Validate checks the configuration's structure: required fields present and
// of the declared shape. Every connection parameter, policy template, and
// endpoint is evaluated independently; all errors from the pass are reported
// together. Returns nil when the configuration is clean.
func Validate(cfg *api.ConnectorConfig) error {
	var errs []FieldError
	missing := func(path string) {
		errs = append(errs, FieldError{Path: path, Detail: "required field is missing"})
	}

	if cfg.Publisher == "" {
		missing("publisher")
	}
	if cfg.DisplayName == "" {
		missing("display_name")
	}
	if cfg.Description == "" {
		missing("description")
	}
	switch {
	case cfg.IconBrandColor == "":
		missing("icon_brand_color")
	case !brandColorRe.MatchString(cfg.IconBrandColor):
		errs = append(errs, FieldError{Path: "icon_brand_color", Detail: fmt.Sprintf("%q is not a #RRGGBB color", cfg.IconBrandColor)})
	}
	if cfg.SupportEmail == "" {
		missing("support_email")
	}
	if len(cfg.Prerequisites) == 0 {
		missing("prerequisites")
	}
	if len(cfg.KnownLimitations) == 0 {
		missing("known_limitations")
	}
	if cfg.Deployment == "" {
		missing("deployment")
	}

	if cfg.Auth == nil {
		missing("auth")
	} else {
		switch {
		case cfg.Auth.Type == "":
			missing("auth.type")
		case !authTypes[cfg.Auth.Type]:
			errs = append(errs, FieldError{Path: "auth.type", Detail: fmt.Sprintf("unknown authentication type %q", cfg.Auth.Type)})
		}
		if cfg.Auth.DisplayName == "" {
			missing("auth.display_name")
		}
		if cfg.Auth.Description == "" {
			missing("auth.description")
		}
	}

	for _, p := range cfg.ConnectionParameters {
		prefix := fmt.Sprintf("connection_parameter %q", p.Name)
		if p.Type == "" {
			missing(prefix + ".type")
		}
		if p.DisplayName == "" {
			missing(prefix + ".display_name")
		}
		if p.Description == "" {
			missing(prefix + ".description")
		}
	}

	for _, t := range cfg.PolicyTemplates {
		prefix := fmt.Sprintf("policy_template %q", t.Name)
		if t.TemplateID == "" {
			missing(prefix + ".template_id")
		}
		if t.Parameters == nil {
			missing(prefix + ".parameters")
		}
	}

	for i, ep := range cfg.Endpoints {
		prefix := fmt.Sprintf("endpoint[%d]", i)
		switch {
		case ep.Method == "":
			missing(prefix + ".method")
		case !httpMethods[strings.ToLower(ep.Method)]:
			errs = append(errs, FieldError{Path: prefix + ".method", Detail: fmt.Sprintf("unknown HTTP method %q", ep.Method)})
		}
		switch {
		case ep.Path == "":
			missing(prefix + ".path")
		case !strings.HasPrefix(ep.Path, "/"):
			errs = append(errs, FieldError{Path: prefix + ".path", Detail: fmt.Sprintf("path %q must start with /", ep.Path)})
		}
	}

	if t := cfg.Trigger; t != nil {
		if t.Method == "" {
			missing("trigger.method")
		}
		if t.Path == "" {
			missing("trigger.path")
		}
		if t.CallbackParameter == "" {
			missing("trigger.callback_parameter")
		}
		if t.PayloadSchema == "" {
			missing("trigger.payload_schema")
		}
		if t.LifecycleMethod == "" {
			missing("trigger.lifecycle_method")
		}
		if t.LifecyclePath == "" {
			missing("trigger.lifecycle_path")
		}
	}

	if len(errs) > 0 {
		return &ConfigError{Fields: errs}
	}
	return nil
}
