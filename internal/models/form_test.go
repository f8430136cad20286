package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinition() *FormDefinition {
	minLength := 10
	return &FormDefinition{
		ID:    "kraft-paper",
		Title: "Kraft paper inquiry",
		Fields: []FieldDescriptor{
			{Name: "name", Label: "Name", Type: FieldText, Required: true},
			{Name: "email", Label: "Email", Type: FieldEmail, Required: true},
			{Name: "product", Label: "Product", Type: FieldText},
			{Name: "message", Label: "Message", Type: FieldTextarea, Required: true, MinLength: &minLength},
		},
	}
}

func TestFieldType_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    FieldType
		wantErr bool
	}{
		{raw: `"text"`, want: FieldText},
		{raw: `""`, want: FieldText},
		{raw: `"EMAIL"`, want: FieldEmail},
		{raw: `"number"`, want: FieldNumber},
		{raw: `"textarea"`, want: FieldTextarea},
		{raw: `"select"`, wantErr: true},
		{raw: `3`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got FieldType
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldDescriptor_JSONShape(t *testing.T) {
	raw := `{"name":"message","label":"Message","type":"textarea","required":true,"minLength":10,"errorMessage":"Too short"}`

	var f FieldDescriptor
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, FieldTextarea, f.Type)
	require.NotNil(t, f.MinLength)
	assert.Equal(t, 10, *f.MinLength)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestFormDefinition_Validate(t *testing.T) {
	assert.NoError(t, sampleDefinition().Validate())

	noFields := &FormDefinition{ID: "x"}
	assert.ErrorContains(t, noFields.Validate(), "has no fields")

	unnamed := sampleDefinition()
	unnamed.Fields[2].Name = " "
	assert.ErrorContains(t, unnamed.Validate(), "has no name")

	duplicate := sampleDefinition()
	duplicate.Fields[2].Name = "email"
	assert.ErrorContains(t, duplicate.Validate(), "duplicate field name")

	missingMessage := sampleDefinition()
	missingMessage.Fields = missingMessage.Fields[:3]
	assert.ErrorContains(t, missingMessage.Validate(), `missing required field "message"`)
}

func TestFormDefinition_WithContext(t *testing.T) {
	original := sampleDefinition()

	got := original.WithContext("MG Kraft Paper")

	product, ok := got.Field("product")
	require.True(t, ok)
	assert.Equal(t, "MG Kraft Paper", product.DefaultValue)

	message, ok := got.Field("message")
	require.True(t, ok)
	assert.Equal(t, "I'd like to inquire about MG Kraft Paper.", message.DefaultValue)

	// the source definition is untouched
	assert.Equal(t, sampleDefinition(), original)

	*got.Fields[3].MinLength = 99
	assert.Equal(t, 10, *original.Fields[3].MinLength)
}

func TestFormDefinition_WithContextKeepsMessageDefault(t *testing.T) {
	def := sampleDefinition()
	def.Fields[3].DefaultValue = "Please send a sample pack."

	got := def.WithContext("Glassine")

	message, _ := got.Field("message")
	assert.Equal(t, "Please send a sample pack.", message.DefaultValue)
}

func TestFormDefinition_WithContextWithoutProductField(t *testing.T) {
	def := sampleDefinition()
	def.Fields = append(def.Fields[:2], def.Fields[3])

	got := def.WithContext("Glassine")

	_, ok := got.Field("product")
	assert.False(t, ok)
	assert.Len(t, got.Fields, 3)
}

func TestFormDefinition_WithContextIsDeterministic(t *testing.T) {
	def := sampleDefinition()
	assert.Equal(t, def.WithContext("Glassine"), def.WithContext("Glassine"))
}

func TestFormDefinition_InitialValues(t *testing.T) {
	values := sampleDefinition().WithContext("Glassine").InitialValues()

	assert.Equal(t, map[string]string{
		"name":    "",
		"email":   "",
		"product": "Glassine",
		"message": "I'd like to inquire about Glassine.",
	}, values)
}

func TestFormDefinition_DialogText(t *testing.T) {
	def := sampleDefinition()
	assert.Equal(t, "Kraft paper inquiry", def.DialogTitle("Glassine"))

	def.Title = ""
	assert.Equal(t, "Inquire about Glassine", def.DialogTitle("Glassine"))
	assert.Equal(t, "Fill out the form and we'll get back to you soon.", def.DialogDescription())
}
