// Package sanitizer elimina de texto libre los fragmentos que parecen datos
// personales antes de que salgan del proceso.
//
// Es un filtro best-effort: la regla de dos palabras capitalizadas redacta de
// más a propósito. Se prefiere un falso positivo a filtrar una identidad.
package sanitizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const DefaultToken = "[REDACTED]"

var ErrInvalidRule = errors.New("invalid sanitizer rule")

// Rule es un patrón con nombre. El orden de las reglas importa.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// RuleSpec es la forma declarativa de una regla (defaults y archivos YAML).
type RuleSpec struct {
	Name            string `yaml:"name"`
	Expr            string `yaml:"expr"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

// DefaultRuleSpecs: emails, teléfonos, documentos (7+ dígitos), fechas D/M/Y,
// fechas ISO, nombres con tratamiento y dos palabras capitalizadas seguidas.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{Name: "email", Expr: `\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`, CaseInsensitive: true},
		{Name: "phone", Expr: `\+?\d[\d\s().-]{7,}\d`},
		{Name: "national_id", Expr: `\b\d{7,}\b`},
		{Name: "date_dmy", Expr: `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`},
		{Name: "date_iso", Expr: `\b\d{4}-\d{2}-\d{2}\b`},
		{Name: "honorific_name", Expr: `\b(?i:mrs|mr|ms|dr)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`},
		{Name: "capitalized_pair", Expr: `\b[A-Z][a-z]{1,20}\s+[A-Z][a-z]{1,20}\b`},
	}
}

// Compile convierte specs en reglas, en el mismo orden.
func Compile(specs []RuleSpec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for i, s := range specs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = fmt.Sprintf("rule_%d", i)
		}
		expr := strings.TrimSpace(s.Expr)
		if expr == "" {
			return nil, fmt.Errorf("%w: %s: empty expr", ErrInvalidRule, name)
		}
		if s.CaseInsensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, name, err)
		}
		out = append(out, Rule{Name: name, Pattern: re})
	}
	return out, nil
}

// DefaultRules compila las reglas por defecto. Panics sólo si alguien rompe un literal.
func DefaultRules() []Rule {
	rules, err := Compile(DefaultRuleSpecs())
	if err != nil {
		panic(err)
	}
	return rules
}

type Sanitizer struct {
	rules []Rule
	token string
}

// New crea un Sanitizer. rules nil => DefaultRules; token vacío => DefaultToken.
func New(rules []Rule, token string) *Sanitizer {
	if rules == nil {
		rules = DefaultRules()
	}
	if strings.TrimSpace(token) == "" {
		token = DefaultToken
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Sanitizer{rules: cp, token: token}
}

func (s *Sanitizer) Token() string { return s.token }

// Rules devuelve una copia de las reglas activas, en orden.
func (s *Sanitizer) Rules() []Rule {
	cp := make([]Rule, len(s.rules))
	copy(cp, s.rules)
	return cp
}

// Sanitize recorta espacios y aplica cada regla en orden. Nunca falla.
func (s *Sanitizer) Sanitize(text string) string {
	out := strings.TrimSpace(text)
	for _, r := range s.rules {
		out = r.Pattern.ReplaceAllLiteralString(out, s.token)
	}
	return out
}
