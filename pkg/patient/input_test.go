package patient

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Guards the binding between struct fields, JSON keys and FieldOrder.
func TestValuesFollowFieldOrder(t *testing.T) {
	payload := map[string]interface{}{"name": "Alice"}
	for i, f := range FieldOrder {
		payload[string(f)] = fmt.Sprintf("v%d", i)
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	var input PatientInput
	require.NoError(t, json.Unmarshal(body, &input))

	values := input.Values()
	require.Len(t, values, FieldCount)
	for i, f := range FieldOrder {
		assert.Equal(t, fmt.Sprintf("v%d", i), values[i].String(), "field %s", f)
		assert.Equal(t, values[i], input.Value(f))
	}
}

func TestRawValueJSON(t *testing.T) {
	var input PatientInput
	err := json.Unmarshal([]byte(`{"name":"Bob","age":"45","sex":0,"oldpeak":2.34,"smoking":null,"stroke_history":true}`), &input)
	require.NoError(t, err)

	text, ok := input.Age.Text()
	assert.True(t, ok)
	assert.Equal(t, "45", text)

	n, ok := input.Sex.Number()
	assert.True(t, ok)
	assert.Equal(t, 0.0, n)

	assert.Equal(t, "2.34", input.Oldpeak.String())
	assert.True(t, input.Smoking.IsAbsent())
	assert.True(t, input.Cholesterol.IsAbsent())
	assert.True(t, input.StrokeHistory.IsText())

	out, err := json.Marshal(input.Age)
	require.NoError(t, err)
	assert.JSONEq(t, `"45"`, string(out))
}

func TestRawValueRejectsObjects(t *testing.T) {
	var input PatientInput
	err := json.Unmarshal([]byte(`{"age":{"value":45}}`), &input)
	assert.Error(t, err)
}

func TestSetAndInputFromDocument(t *testing.T) {
	var input PatientInput
	require.NoError(t, input.Set(Cholesterol, NumberValue(210)))
	assert.Error(t, input.Set(Field("thalach"), NumberValue(1)))
	assert.Equal(t, "210", input.Cholesterol.String())

	doc := map[string]interface{}{
		"name":           "Carol",
		"age":            "51",
		"sex":            float64(1),
		"oldpeak":        "2.0",
		"max_heart_rate": int64(140),
	}
	restored := InputFromDocument(doc)
	assert.Equal(t, "Carol", restored.Name)
	assert.Equal(t, "51", restored.Age.String())
	assert.True(t, restored.Sex.IsNumber())
	assert.True(t, restored.Oldpeak.IsText())
	assert.Equal(t, "140", restored.MaxHeartRate.String())
	assert.True(t, restored.Thalassemia.IsAbsent())
}
