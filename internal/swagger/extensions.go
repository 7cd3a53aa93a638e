package swagger

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Vendor extension fields (keys beginning "x-") are carried out-of-band on
// each node and merged back inline on serialization. Values are kept as
// json.Number-bearing trees so re-encoding does not reformat numerics.

func marshalExtended(base any, ext map[string]any) ([]byte, error) {
	data, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	if len(ext) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range ext {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

func extractExtensions(data []byte) (map[string]any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	var ext map[string]any
	for k, raw := range fields {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if ext == nil {
			ext = make(map[string]any)
		}
		ext[k] = v
	}
	return ext, nil
}

func setExtension(ext *map[string]any, key string, value any) {
	if *ext == nil {
		*ext = make(map[string]any)
	}
	(*ext)[key] = value
}

// SetExtension records a vendor extension field, allocating the map on first use.
func (p *PathItem) SetExtension(key string, value any)  { setExtension(&p.Extensions, key, value) }
func (o *Operation) SetExtension(key string, value any) { setExtension(&o.Extensions, key, value) }
func (p *Parameter) SetExtension(key string, value any) { setExtension(&p.Extensions, key, value) }
func (r *Response) SetExtension(key string, value any)  { setExtension(&r.Extensions, key, value) }
func (h *Header) SetExtension(key string, value any)    { setExtension(&h.Extensions, key, value) }
func (s *Schema) SetExtension(key string, value any)    { setExtension(&s.Extensions, key, value) }

// Aliases strip the custom marshalers so the generic field set can be
// encoded/decoded without recursing into MarshalJSON.
type (
	documentAlias  Document
	infoAlias      Info
	pathItemAlias  PathItem
	operationAlias Operation
	parameterAlias Parameter
	responseAlias  Response
	headerAlias    Header
	schemaAlias    Schema
)

func (d *Document) MarshalJSON() ([]byte, error) {
	return marshalExtended((*documentAlias)(d), d.Extensions)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*documentAlias)(d)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	d.Extensions = ext
	return nil
}

func (i *Info) MarshalJSON() ([]byte, error) {
	return marshalExtended((*infoAlias)(i), i.Extensions)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*infoAlias)(i)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	i.Extensions = ext
	return nil
}

func (p *PathItem) MarshalJSON() ([]byte, error) {
	return marshalExtended((*pathItemAlias)(p), p.Extensions)
}

func (p *PathItem) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*pathItemAlias)(p)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	p.Extensions = ext
	return nil
}

func (o *Operation) MarshalJSON() ([]byte, error) {
	return marshalExtended((*operationAlias)(o), o.Extensions)
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*operationAlias)(o)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	o.Extensions = ext
	return nil
}

func (p *Parameter) MarshalJSON() ([]byte, error) {
	return marshalExtended((*parameterAlias)(p), p.Extensions)
}

func (p *Parameter) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*parameterAlias)(p)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	p.Extensions = ext
	return nil
}

func (r *Response) MarshalJSON() ([]byte, error) {
	return marshalExtended((*responseAlias)(r), r.Extensions)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*responseAlias)(r)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	r.Extensions = ext
	return nil
}

func (h *Header) MarshalJSON() ([]byte, error) {
	return marshalExtended((*headerAlias)(h), h.Extensions)
}

func (h *Header) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*headerAlias)(h)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	h.Extensions = ext
	return nil
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return marshalExtended((*schemaAlias)(s), s.Extensions)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*schemaAlias)(s)); err != nil {
		return err
	}
	ext, err := extractExtensions(data)
	if err != nil {
		return err
	}
	s.Extensions = ext
	return nil
}
