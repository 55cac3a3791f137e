package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func TestValidate_Valid(t *testing.T) {
	err := Validate("person", []byte(personSchema), []byte(`{"name": "Jane", "age": 30}`))
	assert.NoError(t, err)
}

func TestValidate_Invalid(t *testing.T) {
	err := Validate("person", []byte(personSchema), []byte(`{"age": -1}`))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
	assert.Contains(t, err.Error(), "validation failed")

	fields := []string{verr.Errors[0].Field, verr.Errors[1].Field}
	assert.Contains(t, fields, "(root)")
	assert.Contains(t, fields, "age")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate("person", []byte(personSchema), []byte(`{not json`))
	require.Error(t, err)

	var lerr *SchemaLoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "person", lerr.Name)
	assert.NotNil(t, errors.Unwrap(err))
}
