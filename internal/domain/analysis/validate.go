package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RootField es la clave que se usa cuando el payload entero tiene la forma equivocada.
const RootField = "_root"

type historyField struct {
	key   string
	alias string
	dst   func(*MedicalInput) *string
}

// Campos opcionales de la variante extendida. Se aceptan también en camelCase
// (como los manda el front-end).
var historyFields = []historyField{
	{"medical_history", "medicalHistory", func(m *MedicalInput) *string { return &m.MedicalHistory }},
	{"medications", "", func(m *MedicalInput) *string { return &m.Medications }},
	{"allergies", "", func(m *MedicalInput) *string { return &m.Allergies }},
	{"family_history", "familyHistory", func(m *MedicalInput) *string { return &m.FamilyHistory }},
	{"social_history", "socialHistory", func(m *MedicalInput) *string { return &m.SocialHistory }},
	{"vital_signs", "vitalSigns", func(m *MedicalInput) *string { return &m.VitalSigns }},
	{"physical_exam", "physicalExam", func(m *MedicalInput) *string { return &m.PhysicalExam }},
}

// ValidateInput valida un valor JSON ya decodificado contra el schema.
// Revisa todos los campos y junta todos los errores; no corta en el primero.
func ValidateInput(raw any, schema Schema) (MedicalInput, error) {
	errs := FieldErrors{}

	obj, ok := raw.(map[string]any)
	if !ok {
		errs.Add(RootField, fmt.Sprintf("Expected object, received %s", jsonTypeName(raw)))
		return MedicalInput{}, &ValidationError{Kind: ErrInvalidInput, Fields: errs}
	}

	var in MedicalInput

	// age
	if s, ok := requiredString(obj, "age", errs); ok {
		if !validAge(AgeRange(s)) {
			errs.Add("age", fmt.Sprintf("Invalid age range. Expected one of: %s", joinAges()))
		} else {
			in.Age = AgeRange(s)
		}
	}

	// sex (opcional, default prefer_not_to_say)
	in.Sex = SexPreferNotToSay
	if s, present, ok := optionalString(obj, "sex", errs); present && ok {
		if !validSex(Sex(s)) {
			errs.Add("sex", fmt.Sprintf("Invalid sex. Expected one of: %s", joinSexes()))
		} else {
			in.Sex = Sex(s)
		}
	}

	// symptoms
	if s, ok := requiredString(obj, "symptoms", errs); ok {
		n := utf8.RuneCountInString(s)
		switch {
		case n < schema.SymptomsMin:
			errs.Add("symptoms", fmt.Sprintf("Please describe symptoms in more detail (minimum %d characters)", schema.SymptomsMin))
		case schema.SymptomsMax > 0 && n > schema.SymptomsMax:
			errs.Add("symptoms", fmt.Sprintf("Symptoms description too long (maximum %d characters)", schema.SymptomsMax))
		default:
			in.Symptoms = s
		}
	}

	// duration
	if s, ok := requiredString(obj, "duration", errs); ok {
		if strings.TrimSpace(s) == "" {
			errs.Add("duration", "Duration is required")
		} else {
			in.Duration = s
		}
	}

	// labs
	if s, present, ok := optionalString(obj, "labs", errs); present && ok {
		if schema.LabsMax > 0 && utf8.RuneCountInString(s) > schema.LabsMax {
			errs.Add("labs", fmt.Sprintf("Labs description too long (maximum %d characters)", schema.LabsMax))
		} else {
			in.Labs = s
		}
	}

	for _, f := range historyFields {
		key := f.key
		if _, exists := obj[key]; !exists && f.alias != "" {
			if _, aliased := obj[f.alias]; aliased {
				key = f.alias
			}
		}
		s, present, ok := optionalString(obj, key, errs)
		if !present || !ok {
			continue
		}
		if schema.HistoryMax > 0 && utf8.RuneCountInString(s) > schema.HistoryMax {
			errs.Add(key, fmt.Sprintf("Too long (maximum %d characters)", schema.HistoryMax))
			continue
		}
		*f.dst(&in) = s
	}

	if len(errs) > 0 {
		return MedicalInput{}, &ValidationError{Kind: ErrInvalidInput, Fields: errs}
	}
	return in, nil
}

func requiredString(obj map[string]any, key string, errs FieldErrors) (string, bool) {
	v, exists := obj[key]
	if !exists {
		errs.Add(key, "Required")
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		errs.Add(key, fmt.Sprintf("Expected string, received %s", jsonTypeName(v)))
		return "", false
	}
	return s, true
}

// optionalString: ausente o null => (present=false). Otro tipo => error.
func optionalString(obj map[string]any, key string, errs FieldErrors) (s string, present bool, ok bool) {
	v, exists := obj[key]
	if !exists || v == nil {
		return "", false, true
	}
	s, ok = v.(string)
	if !ok {
		errs.Add(key, fmt.Sprintf("Expected string, received %s", jsonTypeName(v)))
		return "", true, false
	}
	return s, true, true
}

func validAge(a AgeRange) bool {
	for _, v := range AgeRanges {
		if v == a {
			return true
		}
	}
	return false
}

func validSex(s Sex) bool {
	for _, v := range Sexes {
		if v == s {
			return true
		}
	}
	return false
}

func joinAges() string {
	out := make([]string, 0, len(AgeRanges))
	for _, a := range AgeRanges {
		out = append(out, string(a))
	}
	return strings.Join(out, ", ")
}

func joinSexes() string {
	out := make([]string, 0, len(Sexes))
	for _, s := range Sexes {
		out = append(out, string(s))
	}
	return strings.Join(out, ", ")
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
