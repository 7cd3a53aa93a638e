// Package swagger models a down-converted (Swagger 2.0) API description as
// persistent value data. Pipeline stages never mutate a loaded document in
// place; they deep-copy it and transform the copy, so callers retain the
// original for diagnostics.
package swagger

import (
	"encoding/json"
	"sort"
	"strings"
)

// methodOrder pins the iteration order of operations within a path item.
var methodOrder = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// Document is the root of a Swagger 2.0 API description.
type Document struct {
	Swagger             string                 `json:"swagger"`
	Info                *Info                  `json:"info,omitempty"`
	Host                string                 `json:"host,omitempty"`
	BasePath            string                 `json:"basePath,omitempty"`
	Schemes             []string               `json:"schemes,omitempty"`
	Consumes            []string               `json:"consumes,omitempty"`
	Produces            []string               `json:"produces,omitempty"`
	Paths               map[string]*PathItem   `json:"paths"`
	Definitions         map[string]*Schema     `json:"definitions,omitempty"`
	SecurityDefinitions map[string]any         `json:"securityDefinitions,omitempty"`
	Security            []map[string][]string  `json:"security,omitempty"`
	Tags                []any                  `json:"tags,omitempty"`
	ExternalDocs        map[string]any         `json:"externalDocs,omitempty"`
	Extensions          map[string]any         `json:"-"`
}

// Info holds the document's top-level metadata.
type Info struct {
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	TermsOfService string         `json:"termsOfService,omitempty"`
	Contact        map[string]any `json:"contact,omitempty"`
	License        map[string]any `json:"license,omitempty"`
	Version        string         `json:"version"`
	Extensions     map[string]any `json:"-"`
}

// PathItem groups the operations available on a single path template.
type PathItem struct {
	Ref        string         `json:"$ref,omitempty"`
	Get        *Operation     `json:"get,omitempty"`
	Put        *Operation     `json:"put,omitempty"`
	Post       *Operation     `json:"post,omitempty"`
	Delete     *Operation     `json:"delete,omitempty"`
	Options    *Operation     `json:"options,omitempty"`
	Head       *Operation     `json:"head,omitempty"`
	Patch      *Operation     `json:"patch,omitempty"`
	Parameters []*Parameter   `json:"parameters,omitempty"`
	Extensions map[string]any `json:"-"`
}

// Operation is a single (method, path) entry.
type Operation struct {
	Tags        []string              `json:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty"`
	Description string                `json:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty"`
	Consumes    []string              `json:"consumes,omitempty"`
	Produces    []string              `json:"produces,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty"`
	Responses   map[string]*Response  `json:"responses"`
	Schemes     []string              `json:"schemes,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty"`
	Security    []map[string][]string `json:"security,omitempty"`
	Extensions  map[string]any        `json:"-"`
}

// Parameter describes a single operation parameter. Body parameters carry a
// Schema; all others use the inline type fields.
type Parameter struct {
	Name             string         `json:"name,omitempty"`
	In               string         `json:"in,omitempty"`
	Description      string         `json:"description,omitempty"`
	Required         bool           `json:"required,omitempty"`
	Schema           *Schema        `json:"schema,omitempty"`
	Type             string         `json:"type,omitempty"`
	Format           string         `json:"format,omitempty"`
	AllowEmptyValue  bool           `json:"allowEmptyValue,omitempty"`
	Items            *Schema        `json:"items,omitempty"`
	CollectionFormat string         `json:"collectionFormat,omitempty"`
	Default          any            `json:"default,omitempty"`
	Enum             []any          `json:"enum,omitempty"`
	Extensions       map[string]any `json:"-"`
}

// Response describes a single response from an operation.
type Response struct {
	Ref         string             `json:"$ref,omitempty"`
	Description string             `json:"description"`
	Schema      *Schema            `json:"schema,omitempty"`
	Headers     map[string]*Header `json:"headers,omitempty"`
	Examples    map[string]any     `json:"examples,omitempty"`
	Extensions  map[string]any     `json:"-"`
}

// Header declares a response header.
type Header struct {
	Description      string         `json:"description,omitempty"`
	Type             string         `json:"type,omitempty"`
	Format           string         `json:"format,omitempty"`
	Items            *Schema        `json:"items,omitempty"`
	CollectionFormat string         `json:"collectionFormat,omitempty"`
	Default          any            `json:"default,omitempty"`
	Extensions       map[string]any `json:"-"`
}

// Schema is a named or inline schema node. Named schemas are owned by the
// document's definitions mapping; inline ones by the operation, parameter, or
// response that declares them.
type Schema struct {
	Ref                  string             `json:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Default              any                `json:"default,omitempty"`
	MultipleOf           *float64           `json:"multipleOf,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	ExclusiveMaximum     bool               `json:"exclusiveMaximum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	ExclusiveMinimum     bool               `json:"exclusiveMinimum,omitempty"`
	MaxLength            *int64             `json:"maxLength,omitempty"`
	MinLength            *int64             `json:"minLength,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
	MaxItems             *int64             `json:"maxItems,omitempty"`
	MinItems             *int64             `json:"minItems,omitempty"`
	UniqueItems          bool               `json:"uniqueItems,omitempty"`
	MaxProperties        *int64             `json:"maxProperties,omitempty"`
	MinProperties        *int64             `json:"minProperties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AllOf                []*Schema          `json:"allOf,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *AdditionalProps   `json:"additionalProperties,omitempty"`
	Discriminator        string             `json:"discriminator,omitempty"`
	ReadOnly             bool               `json:"readOnly,omitempty"`
	XML                  map[string]any     `json:"xml,omitempty"`
	ExternalDocs         map[string]any     `json:"externalDocs,omitempty"`
	Example              any                `json:"example,omitempty"`
	Extensions           map[string]any     `json:"-"`
}

// AdditionalProps holds either a boolean or a schema, the two encodings
// Swagger 2.0 permits for additionalProperties.
type AdditionalProps struct {
	Allowed *bool
	Schema  *Schema
}

func (a *AdditionalProps) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		a.Schema = &Schema{}
		return json.Unmarshal(data, a.Schema)
	}
	return json.Unmarshal(data, &a.Allowed)
}

func (a AdditionalProps) MarshalJSON() ([]byte, error) {
	if a.Schema != nil {
		return json.Marshal(a.Schema)
	}
	return json.Marshal(a.Allowed)
}

// GetOperation returns the operation for an HTTP method (case-insensitive),
// or nil if the path item does not define it.
func (p *PathItem) GetOperation(method string) *Operation {
	switch strings.ToLower(method) {
	case "get":
		return p.Get
	case "put":
		return p.Put
	case "post":
		return p.Post
	case "delete":
		return p.Delete
	case "options":
		return p.Options
	case "head":
		return p.Head
	case "patch":
		return p.Patch
	}
	return nil
}

// SetOperation installs op under the given method. Unknown methods are ignored.
func (p *PathItem) SetOperation(method string, op *Operation) {
	switch strings.ToLower(method) {
	case "get":
		p.Get = op
	case "put":
		p.Put = op
	case "post":
		p.Post = op
	case "delete":
		p.Delete = op
	case "options":
		p.Options = op
	case "head":
		p.Head = op
	case "patch":
		p.Patch = op
	}
}

// Operations returns the path item's operations keyed by lower-case method,
// in pinned method order.
func (p *PathItem) Operations() []OperationRef {
	var out []OperationRef
	for _, m := range methodOrder {
		if op := p.GetOperation(m); op != nil {
			out = append(out, OperationRef{Method: m, Operation: op})
		}
	}
	return out
}

// OperationRef pairs an operation with its position in the document.
type OperationRef struct {
	Path      string
	Method    string
	Operation *Operation
}

// Operations iterates the document's operations in stable (path, method)
// order: paths sorted lexically, methods in pinned order.
func (d *Document) Operations() []OperationRef {
	paths := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []OperationRef
	for _, p := range paths {
		for _, ref := range d.Paths[p].Operations() {
			ref.Path = p
			out = append(out, ref)
		}
	}
	return out
}

// Clone deep-copies the document through a JSON round trip.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
