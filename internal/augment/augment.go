// Package augment attaches platform trigger extensions to a filtered, pruned
// API description: the trigger marker on the webhook operation, the
// notification-url marker on its callback parameter, a synthesized payload
// schema referenced at the path level, visibility on the lifecycle
// operation, and the management-URL header on the success response.
package augment

import (
	"fmt"
	"strings"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/swagger"
)

// TargetError reports a trigger target that the configuration names but the
// document does not carry. Except for the trigger endpoint itself (which
// degrades to a warning), a missing target is a configuration/document
// mismatch that silent skipping would mask, so it is fatal.
type TargetError struct {
	Target string
	Detail string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("trigger augmentation: %s: %s", e.Target, e.Detail)
}

// Apply returns an augmented copy of doc. When the configured trigger
// endpoint is absent from the (already filtered) document, augmentation is a
// no-op and the omission is returned as a warning: a document without a
// webhook endpoint simply has no trigger to expose. Every other
// missing-target condition is a fatal TargetError.
func Apply(doc *swagger.Document, tc *api.TriggerConfig) (*swagger.Document, []string, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, nil, fmt.Errorf("copying document: %w", err)
	}
	if tc == nil {
		return out, nil, nil
	}

	method := strings.ToLower(tc.Method)
	item := out.Paths[tc.Path]
	var op *swagger.Operation
	if item != nil {
		op = item.GetOperation(method)
	}
	if op == nil {
		warning := fmt.Sprintf("trigger endpoint %s %s not found in filtered document; no trigger extensions applied",
			strings.ToUpper(method), tc.Path)
		return out, []string{warning}, nil
	}

	// Trigger marker and platform-facing text on the operation itself.
	op.SetExtension("x-ms-trigger", "single")
	if tc.Hint != "" {
		op.SetExtension("x-ms-trigger-hint", tc.Hint)
	}
	if tc.OperationID != "" {
		op.OperationID = tc.OperationID
	}
	if tc.Summary != "" {
		op.Summary = tc.Summary
	}
	if tc.Description != "" {
		op.Description = tc.Description
	}

	if err := markCallbackParameter(out, op, tc); err != nil {
		return nil, nil, err
	}

	// Synthesize the payload schema if the document does not already carry
	// one, then declare the notification content at the path level.
	if out.Definitions == nil {
		out.Definitions = make(map[string]*swagger.Schema)
	}
	if _, ok := out.Definitions[tc.PayloadSchema]; !ok {
		out.Definitions[tc.PayloadSchema] = payloadSchema(tc)
	}
	item.SetExtension("x-ms-notification-content", map[string]any{
		"description": payloadDescription(tc),
		"schema":      map[string]any{"$ref": swagger.DefinitionRef(tc.PayloadSchema)},
	})

	if err := augmentSuccessResponse(op, tc); err != nil {
		return nil, nil, err
	}

	if err := markLifecycleOperation(out, tc); err != nil {
		return nil, nil, err
	}

	return out, nil, nil
}

// markCallbackParameter finds the configured callback parameter and marks it
// as the notification URL, hidden from the connector UI. When the callback
// travels inside a body parameter, the body is marked required and the URL
// property is located within the referenced definition instead.
func markCallbackParameter(doc *swagger.Document, op *swagger.Operation, tc *api.TriggerConfig) error {
	for _, p := range op.Parameters {
		if p.Name == tc.CallbackParameter {
			markNotificationURL(&p.Extensions)
			if p.Description == "" {
				p.Description = "The callback URL where event notifications are delivered"
			}
			return nil
		}
	}

	// Body-parameter fallback: the URL lives in the request body schema.
	for _, p := range op.Parameters {
		if p.In != "body" {
			continue
		}
		p.Required = true
		if p.Schema == nil {
			break
		}
		target := p.Schema
		if name, ok := swagger.DefinitionName(target.Ref); ok {
			target = doc.Definitions[name]
		}
		if parent := findPropertyParent(target, tc.CallbackParameter); parent != nil {
			markNotificationURL(&parent.Properties[tc.CallbackParameter].Extensions)
			requireProperty(parent, tc.CallbackParameter)
			annotateWebhookName(parent)
			return nil
		}
	}

	return &TargetError{
		Target: fmt.Sprintf("parameter %q", tc.CallbackParameter),
		Detail: "not found on the trigger operation or inside its body schema",
	}
}

func markNotificationURL(ext *map[string]any) {
	if *ext == nil {
		*ext = make(map[string]any)
	}
	(*ext)["x-ms-notification-url"] = true
	(*ext)["x-ms-visibility"] = "internal"
	if _, ok := (*ext)["x-ms-summary"]; !ok {
		(*ext)["x-ms-summary"] = "Callback URL"
	}
}

// findPropertyParent searches a schema's property tree depth-first and
// returns the schema that declares a property with the given name.
func findPropertyParent(s *swagger.Schema, name string) *swagger.Schema {
	if s == nil {
		return nil
	}
	if _, ok := s.Properties[name]; ok {
		return s
	}
	for _, child := range s.Properties {
		if found := findPropertyParent(child, name); found != nil {
			return found
		}
	}
	return nil
}

func requireProperty(s *swagger.Schema, name string) {
	for _, r := range s.Required {
		if r == name {
			return
		}
	}
	s.Required = append(s.Required, name)
}

// annotateWebhookName gives the webhook object's name property a default so
// platform-created subscriptions are identifiable in the upstream service.
func annotateWebhookName(parent *swagger.Schema) {
	name, ok := parent.Properties["name"]
	if !ok {
		return
	}
	name.Default = "Power Platform Trigger"
	if _, present := name.Extensions["x-ms-summary"]; !present {
		name.SetExtension("x-ms-summary", "Webhook Name")
	}
}

// augmentSuccessResponse attaches the management-URL Location header to the
// trigger's success response and keeps the payload schema referenced so it
// is never an unused model.
func augmentSuccessResponse(op *swagger.Operation, tc *api.TriggerConfig) error {
	resp := op.Responses["201"]
	if resp == nil {
		resp = op.Responses["200"]
	}
	if resp == nil {
		return &TargetError{
			Target: fmt.Sprintf("%s %s", strings.ToUpper(tc.Method), tc.Path),
			Detail: "no 200 or 201 response to carry the webhook management header",
		}
	}

	if resp.Headers == nil {
		resp.Headers = make(map[string]*swagger.Header)
	}
	loc := &swagger.Header{
		Type:        "string",
		Description: "URL to manage (update or delete) the created webhook",
	}
	loc.SetExtension("x-ms-summary", "Webhook Management URL")
	resp.Headers["Location"] = loc

	if resp.Schema != nil && resp.Schema.Properties != nil {
		resp.Schema.Properties["_webhook_payload_example"] = &swagger.Schema{
			Ref: swagger.DefinitionRef(tc.PayloadSchema),
		}
	}
	return nil
}

// markLifecycleOperation hides the unsubscribe operation from the connector
// UI so platform tooling can invoke it without exposing it as a user action.
func markLifecycleOperation(doc *swagger.Document, tc *api.TriggerConfig) error {
	item := doc.Paths[tc.LifecyclePath]
	var op *swagger.Operation
	if item != nil {
		op = item.GetOperation(tc.LifecycleMethod)
	}
	if op == nil {
		return &TargetError{
			Target: fmt.Sprintf("lifecycle endpoint %s %s", strings.ToUpper(tc.LifecycleMethod), tc.LifecyclePath),
			Detail: "not found in filtered document",
		}
	}

	op.SetExtension("x-ms-visibility", "internal")
	if _, ok := op.Extensions["x-ms-summary"]; !ok {
		op.SetExtension("x-ms-summary", "Delete webhook")
	}
	if tc.LifecycleOperationID != "" {
		op.OperationID = tc.LifecycleOperationID
	}
	if op.Description == "" {
		op.Description = "Deletes a webhook subscription. Called automatically by the platform " +
			"when a flow using this trigger is deleted or modified."
	}
	return nil
}

func payloadDescription(tc *api.TriggerConfig) string {
	if tc.PayloadDescription != "" {
		return tc.PayloadDescription
	}
	return "Webhook event payload"
}

// payloadSchema builds the synthesized notification payload definition.
func payloadSchema(tc *api.TriggerConfig) *swagger.Schema {
	prop := func(typ, format, summary, description string) *swagger.Schema {
		s := &swagger.Schema{Type: typ, Format: format, Description: description}
		s.SetExtension("x-ms-summary", summary)
		return s
	}
	return &swagger.Schema{
		Type:        "object",
		Description: payloadDescription(tc),
		Properties: map[string]*swagger.Schema{
			"id":         prop("string", "", "Event ID", "The unique identifier of the event"),
			"type":       prop("string", "", "Event Type", "The type of event that occurred"),
			"owner_id":   prop("string", "", "Owner ID", "The ID of the organization that owns this webhook"),
			"data":       prop("object", "", "Event Data", "The resource data associated with the event"),
			"created_at": prop("string", "date-time", "Created At", "The timestamp when the event occurred"),
		},
	}
}
