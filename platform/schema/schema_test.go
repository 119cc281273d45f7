package schema

import (
	"testing"

	"crm_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "number", "minimum": 0}
  }
}`

type person struct {
	Name string  `json:"name,omitempty"`
	Age  float64 `json:"age"`
}

func TestValidateAcceptsConformingDocument(t *testing.T) {
	r, err := NewRegistry(map[string]string{"person": personSchema})
	require.NoError(t, err)

	assert.NoError(t, r.Validate("person", person{Name: "Ada", Age: 36}))
}

func TestValidateListsEachFailedField(t *testing.T) {
	r, err := NewRegistry(map[string]string{"person": personSchema})
	require.NoError(t, err)

	err = r.Validate("person", person{Age: -1})
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	fields, ok := appErr.Details.([]apperr.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "age", fields[0].Field)
	assert.Equal(t, "name", fields[1].Field)
}

func TestValidateUnknownSchema(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)

	err = r.Validate("missing", person{})
	require.Error(t, err)
	assert.False(t, apperr.Is(err, apperr.KindValidation))
}

func TestNewRegistryRejectsBrokenSchema(t *testing.T) {
	_, err := NewRegistry(map[string]string{"broken": `{"type": 12}`})
	assert.Error(t, err)
}
