package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
swagger: "2.0"
info:
  title: Records API
  version: "1.0"
host: api.example.com
basePath: /
paths:
  /v2/records.json:
    get:
      operationId: getRecords
      summary: List records
      x-ms-visibility: important
      responses:
        "200":
          description: OK
          schema:
            $ref: "#/definitions/RecordList"
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
definitions:
  RecordList:
    type: object
    properties:
      records:
        type: array
        items:
          $ref: "#/definitions/Record"
  Record:
    type: object
    properties:
      id:
        type: string
`

func TestLoad_YAMLAndJSONAgree(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	asJSON, err := doc.MarshalIndentJSON()
	require.NoError(t, err)

	again, err := Load(asJSON)
	require.NoError(t, err)

	secondPass, err := again.MarshalIndentJSON()
	require.NoError(t, err)
	assert.Equal(t, string(asJSON), string(secondPass))
}

func TestLoad_ExtensionsSurviveRoundTrip(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	op := doc.Paths["/v2/records.json"].Get
	require.NotNil(t, op)
	assert.Equal(t, "important", op.Extensions["x-ms-visibility"])

	data, err := doc.MarshalIndentJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"x-ms-visibility": "important"`)
}

func TestLoad_RejectsMissingPaths(t *testing.T) {
	_, err := Load([]byte(`swagger: "2.0"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no paths")
}

func TestOperations_StableOrder(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	ops := doc.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "/v2/records.json", ops[0].Path)
	assert.Equal(t, "get", ops[0].Method)
	assert.Equal(t, "/v2/webhooks.json", ops[1].Path)
	assert.Equal(t, "post", ops[1].Method)
}

func TestClone_Independent(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	clone, err := doc.Clone()
	require.NoError(t, err)

	clone.Paths["/v2/records.json"].Get.Summary = "changed"
	delete(clone.Definitions, "Record")

	assert.Equal(t, "List records", doc.Paths["/v2/records.json"].Get.Summary)
	assert.Contains(t, doc.Definitions, "Record")
}

func TestMarshalIndentJSON_Deterministic(t *testing.T) {
	doc, err := Load([]byte(fixtureYAML))
	require.NoError(t, err)

	first, err := doc.MarshalIndentJSON()
	require.NoError(t, err)
	second, err := doc.MarshalIndentJSON()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoad_DropsCompositionKeywordsInSchemaPositions(t *testing.T) {
	// The model declares no anyOf/oneOf fields, so composition keywords in
	// typed schema positions are discarded at load time and never reappear
	// in the serialized output.
	doc, err := Load([]byte(`
swagger: "2.0"
paths: {}
definitions:
  Flexible:
    anyOf:
      - type: string
      - type: integer
    oneOf:
      - type: object
`))
	require.NoError(t, err)

	data, err := doc.MarshalIndentJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "anyOf")
	assert.NotContains(t, string(data), "oneOf")
}

func TestAdditionalProps_BoolAndSchema(t *testing.T) {
	doc, err := Load([]byte(`
swagger: "2.0"
paths: {}
definitions:
  Open:
    type: object
    additionalProperties: true
  Mapped:
    type: object
    additionalProperties:
      type: string
`))
	require.NoError(t, err)

	open := doc.Definitions["Open"].AdditionalProperties
	require.NotNil(t, open)
	require.NotNil(t, open.Allowed)
	assert.True(t, *open.Allowed)
	assert.Nil(t, open.Schema)

	mapped := doc.Definitions["Mapped"].AdditionalProperties
	require.NotNil(t, mapped)
	require.NotNil(t, mapped.Schema)
	assert.Equal(t, "string", mapped.Schema.Type)
}
