// Package filter reduces an API description to a configured allow-list of
// endpoints and normalizes the survivors for connector consumption.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/connector"
	"github.com/apiforge/certpack/internal/swagger"
)

// Apply returns a reduced copy of doc containing exactly the operations named
// by the allow-list. Matching is exact on the path template and
// case-insensitive on the method. Allow-list entries absent from the source
// document fail loudly with a ConfigError naming every missing entry, so
// configuration drift can never silently narrow the surface.
func Apply(doc *swagger.Document, allowlist []*api.Endpoint) (*swagger.Document, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	if len(allowlist) == 0 {
		return out, nil // no allow-list configured: keep the full surface
	}

	keep := make(map[string]map[string]bool, len(allowlist))
	var missing []connector.FieldError
	for i, ep := range allowlist {
		method := strings.ToLower(ep.Method)
		item, ok := doc.Paths[ep.Path]
		if !ok || item.GetOperation(method) == nil {
			missing = append(missing, connector.FieldError{
				Path:   fmt.Sprintf("endpoint[%d]", i),
				Detail: fmt.Sprintf("%s %s is not present in the source document", strings.ToUpper(method), ep.Path),
			})
			continue
		}
		if keep[ep.Path] == nil {
			keep[ep.Path] = make(map[string]bool)
		}
		keep[ep.Path][method] = true
	}
	if len(missing) > 0 {
		return nil, &connector.ConfigError{Fields: missing}
	}

	for path, item := range out.Paths {
		methods := keep[path]
		if methods == nil {
			delete(out.Paths, path)
			continue
		}
		for _, ref := range item.Operations() {
			if !methods[ref.Method] {
				item.SetOperation(ref.Method, nil)
			}
		}
	}
	return out, nil
}

// ListEndpoints returns every operation in the document as a sorted
// "/path/method" string, the shape allow-list entries are written in.
func ListEndpoints(doc *swagger.Document) []string {
	var out []string
	for _, ref := range doc.Operations() {
		out = append(out, ref.Path+"/"+ref.Method)
	}
	sort.Strings(out)
	return out
}

var versionSegmentRe = regexp.MustCompile(`^(?i)(v\d+|api|version\d+)$`)

// resourceName derives a display name from a path template, skipping API
// version prefixes and trailing file extensions: "/v2/records.json" → "records".
func resourceName(path string) string {
	var parts []string
	for _, p := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Root"
	}
	if versionSegmentRe.MatchString(parts[0]) {
		if len(parts) == 1 {
			return "API"
		}
		return strings.SplitN(parts[1], ".", 2)[0]
	}
	return strings.SplitN(parts[0], ".", 2)[0]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Enhance normalizes the surviving operations for connector consumption:
// fills in a "<Resource> <METHOD>" description where one is missing,
// capitalizes the first rune of operationId, and applies the parameter
// conventions the platform requires: every parameter carries an x-ms-summary
// and a description, and path parameters are marked x-ms-url-encoding
// "single". Existing text is never overwritten. Mutates doc, which is
// expected to be a filtered copy.
func Enhance(doc *swagger.Document) {
	for _, ref := range doc.Operations() {
		op := ref.Operation
		if op.Description == "" {
			op.Description = fmt.Sprintf("%s %s", capitalize(resourceName(ref.Path)), strings.ToUpper(ref.Method))
		}
		op.OperationID = capitalize(op.OperationID)
		for _, p := range op.Parameters {
			enhanceParameter(p)
		}
	}
}

func enhanceParameter(p *swagger.Parameter) {
	if _, ok := p.Extensions["x-ms-summary"]; !ok {
		p.SetExtension("x-ms-summary", readableName(p.Name))
	}
	if p.Description == "" {
		if summary, ok := p.Extensions["x-ms-summary"].(string); ok {
			p.Description = summary
		} else {
			p.Description = p.Name
		}
	}
	if p.In == "path" {
		if _, ok := p.Extensions["x-ms-url-encoding"]; !ok {
			p.SetExtension("x-ms-url-encoding", "single")
		}
	}
}

// readableName turns a snake_case or kebab-case parameter name into the
// Title Case summary the connector UI displays.
func readableName(name string) string {
	if name == "" {
		return "Parameter"
	}
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = capitalize(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// KeepSuccessResponses drops every non-2xx response from the surviving
// operations. Error responses carry their own schemas; removing them before
// reachability pruning lets error-only models be swept, and the platform
// warns on operations declaring multiple response schemas.
func KeepSuccessResponses(doc *swagger.Document) {
	for _, ref := range doc.Operations() {
		for code := range ref.Operation.Responses {
			if !strings.HasPrefix(code, "2") {
				delete(ref.Operation.Responses, code)
			}
		}
	}
}

// StripCompositions removes anyOf/oneOf keys from every vendor-extension
// value in the document. Occurrences in typed schema positions are already
// dropped when the document is loaded: the swagger model declares no
// anyOf/oneOf fields, so unmarshaling discards them. Extension values are
// opaque trees that survive down-conversion, so they need this explicit pass.
func StripCompositions(doc *swagger.Document) {
	stripExtMaps(doc.Extensions)
	if doc.Info != nil {
		stripExtMaps(doc.Info.Extensions)
	}
	for _, item := range doc.Paths {
		stripExtMaps(item.Extensions)
		for _, p := range item.Parameters {
			stripExtMaps(p.Extensions)
		}
		for _, ref := range item.Operations() {
			op := ref.Operation
			stripExtMaps(op.Extensions)
			for _, p := range op.Parameters {
				stripExtMaps(p.Extensions)
				stripSchemaExts(p.Schema)
			}
			for _, r := range op.Responses {
				stripExtMaps(r.Extensions)
				stripSchemaExts(r.Schema)
				for _, h := range r.Headers {
					stripExtMaps(h.Extensions)
				}
			}
		}
	}
	for _, s := range doc.Definitions {
		stripSchemaExts(s)
	}
}

func stripSchemaExts(s *swagger.Schema) {
	if s == nil {
		return
	}
	stripExtMaps(s.Extensions)
	stripSchemaExts(s.Items)
	for _, p := range s.Properties {
		stripSchemaExts(p)
	}
	for _, a := range s.AllOf {
		stripSchemaExts(a)
	}
	if s.AdditionalProperties != nil {
		stripSchemaExts(s.AdditionalProperties.Schema)
	}
}

func stripExtMaps(ext map[string]any) {
	for _, v := range ext {
		stripTree(v)
	}
}

func stripTree(v any) {
	switch t := v.(type) {
	case map[string]any:
		delete(t, "anyOf")
		delete(t, "oneOf")
		for _, child := range t {
			stripTree(child)
		}
	case []any:
		for _, child := range t {
			stripTree(child)
		}
	}
}
