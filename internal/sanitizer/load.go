package sanitizer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File es el formato del archivo de reglas (PII_PATTERNS_FILE):
//
//	redaction_token: "[REDACTED]"
//	patterns:
//	  - name: email
//	    expr: '\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b'
//	    case_insensitive: true
//
// Si patterns está vacío se usan las reglas por defecto.
type File struct {
	RedactionToken string     `yaml:"redaction_token"`
	Patterns       []RuleSpec `yaml:"patterns"`
}

// Load lee un archivo YAML de reglas y construye el Sanitizer.
func Load(path string) (*Sanitizer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pii patterns: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

func Parse(r io.Reader) (*Sanitizer, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse pii patterns: %w", err)
	}

	if len(f.Patterns) == 0 {
		return New(nil, f.RedactionToken), nil
	}

	rules, err := Compile(f.Patterns)
	if err != nil {
		return nil, err
	}
	return New(rules, f.RedactionToken), nil
}
