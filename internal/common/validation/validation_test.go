package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var percentageSchema = MustCompile(`{
	"type": "object",
	"required": ["percentage"],
	"properties": {"percentage": {"type": "number"}}
}`)

func TestSchema_ValidateJSON(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"number", `{"percentage": 72.5}`, true},
		{"integer", `{"percentage": 80}`, true},
		{"string value", `{"percentage": "80"}`, false},
		{"missing field", `{"score": 80}`, false},
		{"not an object", `[80]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := percentageSchema.ValidateJSON([]byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.NotEmpty(t, vErr.Violations)
		})
	}
}

func TestSchema_ValidateGo(t *testing.T) {
	assert.NoError(t, percentageSchema.ValidateGo(map[string]interface{}{"percentage": 10}))
	assert.Error(t, percentageSchema.ValidateGo(map[string]interface{}{}))
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() { MustCompile(`{"type": 12}`) })
}

type ratingInput struct {
	CandidateID string   `validate:"required"`
	Rating      *float64 `validate:"omitempty,gte=0,lte=5"`
}

func TestStruct(t *testing.T) {
	five, six, neg := 5.0, 6.0, -1.0

	assert.NoError(t, Struct(ratingInput{CandidateID: "c-1", Rating: &five}))
	assert.NoError(t, Struct(ratingInput{CandidateID: "c-1"}))

	err := Struct(ratingInput{CandidateID: "c-1", Rating: &six})
	require.Error(t, err)
	assert.Equal(t, "rating must be <= 5", err.Error())

	err = Struct(ratingInput{Rating: &neg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidateID is required")
	assert.Contains(t, err.Error(), "rating must be >= 0")
}
