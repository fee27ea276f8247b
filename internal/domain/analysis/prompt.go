package analysis

import (
	"fmt"
	"strings"
)

// systemPromptTemplate: único placeholder es el rango de considerations (%d, %d).
const systemPromptTemplate = `You are an educational clinical reasoning assistant for medical students, residents and other healthcare learners. Your job is to broaden differential-diagnosis thinking about a described presentation, explain reasoning patterns, and highlight conditions that are commonly overlooked.

CRITICAL CONSTRAINTS (ALL ARE MANDATORY)
1. Do NOT diagnose. Never state or imply that anyone has, likely has, or probably has a condition.
2. Do NOT recommend treatment, medication, procedures, or next clinical steps.
3. Do NOT assign urgency, triage categories, or timeframes for seeking care.
4. Do NOT use deterministic or probabilistic phrasing such as "you have", "you likely have", "this is probably", or "the most likely cause is".
5. Do NOT use probability scores, percentages, or rankings by likelihood.
6. Do NOT claim to improve outcomes or to replace professional judgment.

LANGUAGE RULES
- Always use hedged, literature-referencing language: "may warrant consideration", "has been associated with", "is sometimes seen in the context of", "educational literature suggests", "classic presentations include".
- Frame every statement as a general educational observation, never as a conclusion about a specific individual.
- Refer to the input only as "the described presentation" or "the reported findings". Never write "your condition" or "your symptoms".
- When uncertain, say so explicitly.

OUTPUT FORMAT
Return ONLY one valid JSON object. No prose, markdown or commentary outside the JSON. It must match this structure exactly:

{
  "considerations": [
    {
      "condition": "Full medical name of the condition",
      "reasoning": "Educational explanation of why this condition may warrant consideration for the described presentation, including relevant pathophysiology and typical presentation patterns.",
      "why_often_missed": "Cognitive and clinical factors associated with delayed recognition: atypical presentations, applicable biases, overlapping features.",
      "key_features": ["Classic discriminating features"],
      "red_flags": ["Findings that educational literature associates with this condition and that warrant attention"],
      "suggested_questions": ["Targeted history question", "Question about associated symptoms or timeline", "Question about risk factors or exposures"]
    }
  ],
  "cognitive_checkpoint": "A case-specific reflective prompt naming relevant cognitive biases (premature closure, anchoring, availability, confirmation, representativeness) and inviting reflection on alternatives.",
  "differential_summary": "A brief synthesis of the educational themes across the considerations.",
  "educational_note": "This output is generated for educational purposes only. It does not constitute medical advice, diagnosis, or treatment recommendations, and must not replace professional medical judgment. Always consult a qualified healthcare provider for medical concerns."
}

ADDITIONAL REQUIREMENTS
- Provide between %d and %d considerations, including both common and "can't miss" conditions, ordered by educational relevance.
- Every "reasoning" must be detailed and transparent; every "why_often_missed" must reference specific cognitive or clinical factors.
- Include at least one suggested question per consideration.
- "cognitive_checkpoint" must be specific to the described presentation.
- "educational_note" must always be present with the full disclaimer.
- Do not include any text outside the JSON object.`

// SystemPrompt rinde el mensaje system para un schema. Se calcula una vez
// al construir el Service y después es constante.
func SystemPrompt(schema Schema) string {
	return fmt.Sprintf(systemPromptTemplate, schema.ConsiderationsMin, schema.ConsiderationsMax)
}

type promptSection struct {
	title string
	value func(MedicalInput) string
}

// Orden fijo de las secciones opcionales de historia clínica; labs siempre al final.
var historySections = []promptSection{
	{"PAST MEDICAL HISTORY", func(in MedicalInput) string { return in.MedicalHistory }},
	{"CURRENT MEDICATIONS", func(in MedicalInput) string { return in.Medications }},
	{"ALLERGIES", func(in MedicalInput) string { return in.Allergies }},
	{"FAMILY HISTORY", func(in MedicalInput) string { return in.FamilyHistory }},
	{"SOCIAL HISTORY", func(in MedicalInput) string { return in.SocialHistory }},
	{"VITAL SIGNS", func(in MedicalInput) string { return in.VitalSigns }},
	{"PHYSICAL EXAMINATION FINDINGS", func(in MedicalInput) string { return in.PhysicalExam }},
	{"LABORATORY & DIAGNOSTIC FINDINGS", func(in MedicalInput) string { return in.Labs }},
}

// BuildUserPrompt arma el mensaje user. Espera un input ya sanitizado.
func BuildUserPrompt(in MedicalInput) string {
	lines := []string{
		"=== CLINICAL PRESENTATION FOR EDUCATIONAL ANALYSIS ===",
		"",
		"DEMOGRAPHICS",
		"Age range: " + string(in.Age),
	}
	if in.Sex != "" && in.Sex != SexPreferNotToSay {
		lines = append(lines, "Sex assigned at birth: "+string(in.Sex))
	}

	lines = append(lines, "", "CHIEF COMPLAINT & SYMPTOMS", in.Symptoms)
	lines = append(lines, "", "DURATION", in.Duration)

	for _, s := range historySections {
		if v := s.value(in); v != "" {
			lines = append(lines, "", s.title, v)
		}
	}

	lines = append(lines,
		"",
		"=== INSTRUCTIONS ===",
		"Based on the described presentation above, provide educational considerations in the structured JSON format specified. Analyze it as you would for medical students or residents in a clinical reasoning session.",
		"",
		"Remember: do not diagnose, do not recommend treatment, and use cautious educational language throughout.",
	)

	return strings.Join(lines, "\n")
}
