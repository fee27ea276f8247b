package analysis

import (
	"fmt"
	"strings"
)

// Schema agrupa los límites de entrada y salida. Un único tipo con presets
// en lugar de dos implementaciones.
// Un máximo en 0 significa "sin límite".
type Schema struct {
	Name string

	SymptomsMin int
	SymptomsMax int
	LabsMax     int
	HistoryMax  int

	ConsiderationsMin int
	ConsiderationsMax int
	ConditionMin      int
	ReasoningMin      int
	WhyOftenMissedMin int
	CheckpointMin     int
	EducationalMin    int
}

var (
	Strict = Schema{
		Name:              "strict",
		SymptomsMin:       10,
		SymptomsMax:       2000,
		LabsMax:           1000,
		HistoryMax:        2000,
		ConsiderationsMin: 3,
		ConsiderationsMax: 8,
		ConditionMin:      1,
		ReasoningMin:      10,
		WhyOftenMissedMin: 10,
		CheckpointMin:     20,
		EducationalMin:    10,
	}

	Relaxed = Schema{
		Name:              "relaxed",
		SymptomsMin:       5,
		ConsiderationsMin: 2,
		ConsiderationsMax: 12,
		ConditionMin:      1,
		ReasoningMin:      10,
		WhyOftenMissedMin: 10,
		CheckpointMin:     20,
		EducationalMin:    10,
	}
)

// SchemaByName resuelve un preset ("strict" por defecto).
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Strict.Name:
		return Strict, nil
	case Relaxed.Name:
		return Relaxed, nil
	default:
		return Schema{}, fmt.Errorf("unknown schema preset %q", name)
	}
}
