package augment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiforge/certpack/api"
	"github.com/apiforge/certpack/internal/swagger"
)

const fixtureYAML = `
swagger: "2.0"
paths:
  /v2/records.json:
    get:
      operationId: getRecords
      responses:
        "200":
          description: OK
  /v2/webhooks.json:
    post:
      operationId: createWebhook
      parameters:
        - name: url
          in: query
          type: string
      responses:
        "201":
          description: Created
          schema:
            type: object
            properties:
              id:
                type: string
  /v2/webhooks/{webhook_id}.json:
    delete:
      operationId: deleteWebhook
      responses:
        "204":
          description: Deleted
`

func trigger() *api.TriggerConfig {
	return &api.TriggerConfig{
		Method:               "post",
		Path:                 "/v2/webhooks.json",
		CallbackParameter:    "url",
		OperationID:          "OnEvent",
		Summary:              "When an event occurs",
		Hint:                 "To see it work, create a record",
		PayloadSchema:        "EventPayload",
		LifecycleMethod:      "delete",
		LifecyclePath:        "/v2/webhooks/{webhook_id}.json",
		LifecycleOperationID: "UnsubscribeFromEvent",
	}
}

func load(t *testing.T, src string) *swagger.Document {
	t.Helper()
	doc, err := swagger.Load([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestApply_AttachesTriggerExtensions(t *testing.T) {
	doc := load(t, fixtureYAML)

	out, warnings, err := Apply(doc, trigger())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	op := out.Paths["/v2/webhooks.json"].Post
	assert.Equal(t, "single", op.Extensions["x-ms-trigger"])
	assert.Equal(t, "To see it work, create a record", op.Extensions["x-ms-trigger-hint"])
	assert.Equal(t, "OnEvent", op.OperationID)
	assert.Equal(t, "When an event occurs", op.Summary)

	// Callback parameter is marked and hidden from the UI.
	url := op.Parameters[0]
	assert.Equal(t, true, url.Extensions["x-ms-notification-url"])
	assert.Equal(t, "internal", url.Extensions["x-ms-visibility"])

	// Notification content is declared at the path level, not on the operation.
	item := out.Paths["/v2/webhooks.json"]
	content, ok := item.Extensions["x-ms-notification-content"].(map[string]any)
	require.True(t, ok)
	schema := content["schema"].(map[string]any)
	assert.Equal(t, "#/definitions/EventPayload", schema["$ref"])
	assert.NotContains(t, op.Extensions, "x-ms-notification-content")

	// The payload schema was synthesized into definitions.
	payload := out.Definitions["EventPayload"]
	require.NotNil(t, payload)
	assert.Equal(t, "object", payload.Type)
	assert.Contains(t, payload.Properties, "id")
	assert.Contains(t, payload.Properties, "created_at")

	// Success response carries the management-URL header.
	resp := op.Responses["201"]
	require.NotNil(t, resp.Headers["Location"])
	assert.Equal(t, "string", resp.Headers["Location"].Type)

	// Lifecycle operation is hidden so the platform can call it without
	// exposing a user action.
	del := out.Paths["/v2/webhooks/{webhook_id}.json"].Delete
	assert.Equal(t, "internal", del.Extensions["x-ms-visibility"])
	assert.Equal(t, "UnsubscribeFromEvent", del.OperationID)

	// Source document untouched.
	assert.Nil(t, doc.Paths["/v2/webhooks.json"].Post.Extensions["x-ms-trigger"])
	assert.NotContains(t, doc.Definitions, "EventPayload")
}

func TestApply_AugmentedDocumentStaysConsistent(t *testing.T) {
	doc := load(t, fixtureYAML)
	out, _, err := Apply(doc, trigger())
	require.NoError(t, err)
	require.NoError(t, swagger.Verify(out))
}

func TestApply_MissingTriggerEndpointWarnsAndNoOps(t *testing.T) {
	doc := load(t, fixtureYAML)
	tc := trigger()
	tc.Path = "/v2/not-there.json"

	out, warnings, err := Apply(doc, tc)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "POST /v2/not-there.json")

	// No extensions were applied anywhere.
	assert.NotContains(t, out.Definitions, "EventPayload")
	assert.Nil(t, out.Paths["/v2/webhooks.json"].Post.Extensions)
}

func TestApply_MissingCallbackParameterIsFatal(t *testing.T) {
	doc := load(t, fixtureYAML)
	tc := trigger()
	tc.CallbackParameter = "callback_url"

	_, _, err := Apply(doc, tc)
	require.Error(t, err)
	var terr *TargetError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Target, "callback_url")
}

func TestApply_MissingLifecycleEndpointIsFatal(t *testing.T) {
	doc := load(t, fixtureYAML)
	tc := trigger()
	tc.LifecyclePath = "/v2/nothing/{id}.json"

	_, _, err := Apply(doc, tc)
	require.Error(t, err)
	var terr *TargetError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Target, "lifecycle")
}

func TestApply_MissingSuccessResponseIsFatal(t *testing.T) {
	doc := load(t, `
swagger: "2.0"
paths:
  /v2/webhooks.json:
    post:
      operationId: createWebhook
      parameters:
        - name: url
          in: query
          type: string
      responses:
        "400":
          description: Bad Request
  /v2/webhooks/{webhook_id}.json:
    delete:
      operationId: deleteWebhook
      responses:
        "204":
          description: Deleted
`)
	_, _, err := Apply(doc, trigger())
	require.Error(t, err)
	var terr *TargetError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Detail, "response")
}

func TestApply_CallbackInsideBodySchema(t *testing.T) {
	doc := load(t, `
swagger: "2.0"
paths:
  /v2/webhooks.json:
    post:
      operationId: createWebhook
      parameters:
        - name: body
          in: body
          schema:
            $ref: "#/definitions/WebhookRequest"
      responses:
        "201":
          description: Created
  /v2/webhooks/{webhook_id}.json:
    delete:
      operationId: deleteWebhook
      responses:
        "204":
          description: Deleted
definitions:
  WebhookRequest:
    type: object
    properties:
      webhook:
        type: object
        properties:
          url:
            type: string
          name:
            type: string
`)
	out, _, err := Apply(doc, trigger())
	require.NoError(t, err)

	op := out.Paths["/v2/webhooks.json"].Post
	body := op.Parameters[0]
	assert.True(t, body.Required)

	webhook := out.Definitions["WebhookRequest"].Properties["webhook"]
	urlProp := webhook.Properties["url"]
	assert.Equal(t, true, urlProp.Extensions["x-ms-notification-url"])
	assert.Equal(t, "internal", urlProp.Extensions["x-ms-visibility"])

	// The callback property becomes required on its declaring object, and the
	// sibling name property gets a default so platform-created subscriptions
	// are identifiable upstream.
	assert.Contains(t, webhook.Required, "url")
	nameProp := webhook.Properties["name"]
	assert.Equal(t, "Power Platform Trigger", nameProp.Default)
	assert.Equal(t, "Webhook Name", nameProp.Extensions["x-ms-summary"])
}

func TestApply_NilTriggerConfigIsNoOp(t *testing.T) {
	doc := load(t, fixtureYAML)
	out, warnings, err := Apply(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, out.Operations(), len(doc.Operations()))
}

func TestApply_ExistingPayloadSchemaNotReplaced(t *testing.T) {
	doc := load(t, fixtureYAML)
	doc.Definitions = map[string]*swagger.Schema{
		"EventPayload": {Type: "object", Description: "already here"},
	}

	out, _, err := Apply(doc, trigger())
	require.NoError(t, err)
	assert.Equal(t, "already here", out.Definitions["EventPayload"].Description)
}
