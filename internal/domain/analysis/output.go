package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var codeFence = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ExtractJSON busca el objeto JSON dentro del texto crudo del modelo.
// Si hay un bloque ``` se usa su contenido; si no, el texto completo.
// Se toma desde el primer '{' hasta el último '}' inclusive.
func ExtractJSON(raw string) (any, error) {
	candidate := raw
	if m := codeFence.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrNoJSONFound
	}

	var v any
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return v, nil
}

// ParseOutput = ExtractJSON + ValidateOutput.
func ParseOutput(raw string, schema Schema) (MedicalOutput, error) {
	v, err := ExtractJSON(raw)
	if err != nil {
		return MedicalOutput{}, err
	}
	return ValidateOutput(v, schema)
}

// ValidateOutput chequea estructura y longitudes. Los errores anidados se
// agrupan bajo el campo de primer nivel, con el path en el mensaje.
func ValidateOutput(v any, schema Schema) (MedicalOutput, error) {
	errs := FieldErrors{}

	obj, ok := v.(map[string]any)
	if !ok {
		errs.Add(RootField, fmt.Sprintf("Expected object, received %s", jsonTypeName(v)))
		return MedicalOutput{}, &ValidationError{Kind: ErrSchemaViolation, Fields: errs}
	}

	var out MedicalOutput
	out.Considerations = validateConsiderations(obj, schema, errs)

	if s, ok := requiredString(obj, "cognitive_checkpoint", errs); ok {
		if utf8.RuneCountInString(s) < schema.CheckpointMin {
			errs.Add("cognitive_checkpoint", "Cognitive checkpoint must be substantial")
		}
		out.CognitiveCheckpoint = s
	}

	if s, present, ok := optionalString(obj, "differential_summary", errs); present && ok {
		out.DifferentialSummary = &s
	}

	if s, ok := requiredString(obj, "educational_note", errs); ok {
		if utf8.RuneCountInString(s) < schema.EducationalMin {
			errs.Add("educational_note", "Educational disclaimer required")
		}
		out.EducationalNote = s
	}

	if len(errs) > 0 {
		return MedicalOutput{}, &ValidationError{Kind: ErrSchemaViolation, Fields: errs}
	}
	return out, nil
}

func validateConsiderations(obj map[string]any, schema Schema, errs FieldErrors) []Consideration {
	const field = "considerations"

	v, exists := obj[field]
	if !exists {
		errs.Add(field, "Required")
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		errs.Add(field, fmt.Sprintf("Expected array, received %s", jsonTypeName(v)))
		return nil
	}

	if len(items) < schema.ConsiderationsMin {
		errs.Add(field, fmt.Sprintf("Minimum %d considerations required", schema.ConsiderationsMin))
	}
	if schema.ConsiderationsMax > 0 && len(items) > schema.ConsiderationsMax {
		errs.Add(field, fmt.Sprintf("Maximum %d considerations allowed", schema.ConsiderationsMax))
	}

	out := make([]Consideration, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", field, i)
		// Errores del ítem van a un mapa local y se re-emiten bajo "considerations".
		local := FieldErrors{}
		c := validateConsideration(item, schema, local)
		for k, msgs := range local {
			for _, m := range msgs {
				if k == RootField {
					errs.Add(field, fmt.Sprintf("%s: %s", path, m))
				} else {
					errs.Add(field, fmt.Sprintf("%s.%s: %s", path, k, m))
				}
			}
		}
		out = append(out, c)
	}
	return out
}

func validateConsideration(v any, schema Schema, errs FieldErrors) Consideration {
	obj, ok := v.(map[string]any)
	if !ok {
		errs.Add(RootField, fmt.Sprintf("Expected object, received %s", jsonTypeName(v)))
		return Consideration{}
	}

	var c Consideration
	if s, ok := requiredString(obj, "condition", errs); ok {
		if utf8.RuneCountInString(s) < schema.ConditionMin {
			errs.Add("condition", "Condition name required")
		}
		c.Condition = s
	}
	if s, ok := requiredString(obj, "reasoning", errs); ok {
		if utf8.RuneCountInString(s) < schema.ReasoningMin {
			errs.Add("reasoning", "Reasoning must be detailed")
		}
		c.Reasoning = s
	}
	if s, ok := requiredString(obj, "why_often_missed", errs); ok {
		if utf8.RuneCountInString(s) < schema.WhyOftenMissedMin {
			errs.Add("why_often_missed", "Missing rationale required")
		}
		c.WhyOftenMissed = s
	}

	c.KeyFeatures, _ = stringList(obj, "key_features", false, errs)
	c.RedFlags, _ = stringList(obj, "red_flags", false, errs)

	if qs, ok := stringList(obj, "suggested_questions", true, errs); ok {
		if len(qs) < 1 {
			errs.Add("suggested_questions", "At least one question required")
		}
		c.SuggestedQuestions = qs
	}
	return c
}

// stringList lee un array de strings. Opcional: ausente o null => nil, true.
func stringList(obj map[string]any, key string, required bool, errs FieldErrors) ([]string, bool) {
	v, exists := obj[key]
	if !exists || (v == nil && !required) {
		if required {
			errs.Add(key, "Required")
			return nil, false
		}
		return nil, true
	}

	items, ok := v.([]any)
	if !ok {
		errs.Add(key, fmt.Sprintf("Expected array, received %s", jsonTypeName(v)))
		return nil, false
	}

	out := make([]string, 0, len(items))
	valid := true
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			errs.Add(key, fmt.Sprintf("[%d]: Expected string, received %s", i, jsonTypeName(it)))
			valid = false
			continue
		}
		out = append(out, s)
	}
	return out, valid
}
