package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consideration(name string) map[string]any {
	return map[string]any{
		"condition":           name,
		"reasoning":           "Has been associated with this presentation.",
		"why_often_missed":    "Anchoring on more common causes.",
		"key_features":        []any{"feature"},
		"red_flags":           []any{"flag"},
		"suggested_questions": []any{"When did it start?"},
	}
}

func outputDoc(n int) map[string]any {
	cs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		cs = append(cs, consideration("Condition "+string(rune('A'+i))))
	}
	return map[string]any{
		"considerations":       cs,
		"cognitive_checkpoint": "Reflect on premature closure and availability bias.",
		"educational_note":     "Educational purposes only.",
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want any
	}{
		{"plain", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"surrounding prose", `Sure! {"a":1} Hope it helps.`, map[string]any{"a": float64(1)}},
		{"json fence", "```json\n{\"a\":1}\n```", map[string]any{"a": float64(1)}},
		{"bare fence", "text\n```\n{\"a\":2}\n```\nmore", map[string]any{"a": float64(2)}},
		{"upper tag", "```JSON\n{\"a\":3}\n```", map[string]any{"a": float64(3)}},
		{"nested braces", `x {"a":{"b":[1,2]}} y`, map[string]any{"a": map[string]any{"b": []any{float64(1), float64(2)}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	_, err := ExtractJSON("no json here")
	assert.ErrorIs(t, err, ErrNoJSONFound)

	_, err = ExtractJSON("} backwards {")
	assert.ErrorIs(t, err, ErrNoJSONFound)

	_, err = ExtractJSON(`{"a": }`)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestParseOutput_Valid(t *testing.T) {
	doc := outputDoc(3)
	doc["differential_summary"] = "Themes."

	out, err := ParseOutput("```json\n"+marshal(t, doc)+"\n```", Strict)
	require.NoError(t, err)
	assert.Len(t, out.Considerations, 3)
	assert.Equal(t, "Condition A", out.Considerations[0].Condition)
	assert.Equal(t, []string{"When did it start?"}, out.Considerations[0].SuggestedQuestions)
	require.NotNil(t, out.DifferentialSummary)
	assert.Equal(t, "Themes.", *out.DifferentialSummary)
}

func TestValidateOutput_ConsiderationCounts(t *testing.T) {
	_, err := ValidateOutput(outputDoc(2), Strict)
	assert.Equal(t, []string{"Minimum 3 considerations required"}, fieldErrors(t, err)["considerations"])

	_, err = ValidateOutput(outputDoc(9), Strict)
	assert.Equal(t, []string{"Maximum 8 considerations allowed"}, fieldErrors(t, err)["considerations"])

	_, err = ValidateOutput(outputDoc(8), Strict)
	assert.NoError(t, err)

	_, err = ValidateOutput(outputDoc(2), Relaxed)
	assert.NoError(t, err)
}

func TestValidateOutput_NestedPaths(t *testing.T) {
	doc := outputDoc(3)
	c := doc["considerations"].([]any)[2].(map[string]any)
	c["reasoning"] = "short"
	c["suggested_questions"] = []any{}
	delete(c, "condition")

	_, err := ValidateOutput(doc, Strict)
	require.ErrorIs(t, err, ErrSchemaViolation)

	msgs := fieldErrors(t, err)["considerations"]
	assert.ElementsMatch(t, []string{
		"considerations[2].condition: Required",
		"considerations[2].reasoning: Reasoning must be detailed",
		"considerations[2].suggested_questions: At least one question required",
	}, msgs)
}

func TestValidateOutput_TopLevelFields(t *testing.T) {
	doc := outputDoc(3)
	delete(doc, "cognitive_checkpoint")
	doc["educational_note"] = "short"

	_, err := ValidateOutput(doc, Strict)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"Required"}, fields["cognitive_checkpoint"])
	assert.Equal(t, []string{"Educational disclaimer required"}, fields["educational_note"])
}

func TestValidateOutput_OptionalListsMayBeAbsent(t *testing.T) {
	doc := outputDoc(3)
	for _, c := range doc["considerations"].([]any) {
		m := c.(map[string]any)
		delete(m, "key_features")
		m["red_flags"] = nil
	}

	out, err := ValidateOutput(doc, Strict)
	require.NoError(t, err)
	assert.Nil(t, out.Considerations[0].KeyFeatures)
	assert.Nil(t, out.Considerations[0].RedFlags)
	assert.Nil(t, out.DifferentialSummary)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	for _, key := range []string{"key_features", "red_flags", "differential_summary"} {
		assert.NotContains(t, string(b), key)
	}
}

func TestValidateOutput_EmptyOptionalsSurviveEncoding(t *testing.T) {
	doc := outputDoc(3)
	for _, c := range doc["considerations"].([]any) {
		m := c.(map[string]any)
		m["key_features"] = []any{}
		m["red_flags"] = []any{}
	}
	doc["differential_summary"] = ""

	out, err := ValidateOutput(doc, Strict)
	require.NoError(t, err)

	b, err := json.Marshal(out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "", got["differential_summary"])
	first := got["considerations"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{}, first["key_features"])
	assert.Equal(t, []any{}, first["red_flags"])
}

func TestValidateOutput_WrongTypes(t *testing.T) {
	doc := outputDoc(3)
	doc["considerations"].([]any)[0].(map[string]any)["suggested_questions"] = []any{"ok", 3}

	_, err := ValidateOutput(doc, Strict)
	msgs := fieldErrors(t, err)["considerations"]
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], "considerations[0].suggested_questions: [1]: Expected string"))
}
