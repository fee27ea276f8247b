package analysis

// AgeRange es el rango etario declarado en el formulario.
// @Enum 0-12, 13-17, 18-29, 30-44, 45-59, 60-74, 75+
type AgeRange string

const (
	Age0To12  AgeRange = "0-12"
	Age13To17 AgeRange = "13-17"
	Age18To29 AgeRange = "18-29"
	Age30To44 AgeRange = "30-44"
	Age45To59 AgeRange = "45-59"
	Age60To74 AgeRange = "60-74"
	Age75Plus AgeRange = "75+"
)

var AgeRanges = []AgeRange{Age0To12, Age13To17, Age18To29, Age30To44, Age45To59, Age60To74, Age75Plus}

// Sex es el sexo asignado al nacer.
// @Enum female, male, intersex, prefer_not_to_say
type Sex string

const (
	SexFemale         Sex = "female"
	SexMale           Sex = "male"
	SexIntersex       Sex = "intersex"
	SexPreferNotToSay Sex = "prefer_not_to_say"
)

var Sexes = []Sex{SexFemale, SexMale, SexIntersex, SexPreferNotToSay}

// MedicalInput es el formulario de intake ya validado.
// Vive sólo durante la request; nunca se persiste.
// Los campos opcionales vacíos se consideran ausentes.
type MedicalInput struct {
	Age      AgeRange `json:"age"`
	Sex      Sex      `json:"sex"`
	Symptoms string   `json:"symptoms"`
	Duration string   `json:"duration"`
	Labs     string   `json:"labs,omitempty"`

	MedicalHistory string `json:"medical_history,omitempty"`
	Medications    string `json:"medications,omitempty"`
	Allergies      string `json:"allergies,omitempty"`
	FamilyHistory  string `json:"family_history,omitempty"`
	SocialHistory  string `json:"social_history,omitempty"`
	VitalSigns     string `json:"vital_signs,omitempty"`
	PhysicalExam   string `json:"physical_exam,omitempty"`
}

// Consideration es un ítem del diferencial educativo. Los opcionales distinguen
// ausente (nil, se omite) de vacío ([] se devuelve tal cual).
type Consideration struct {
	Condition          string   `json:"condition"`
	Reasoning          string   `json:"reasoning"`
	WhyOftenMissed     string   `json:"why_often_missed"`
	KeyFeatures        []string `json:"key_features,omitzero"`
	RedFlags           []string `json:"red_flags,omitzero"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// MedicalOutput es la respuesta del modelo, validada estructuralmente.
// No se valida el contenido médico.
type MedicalOutput struct {
	Considerations      []Consideration `json:"considerations"`
	CognitiveCheckpoint string          `json:"cognitive_checkpoint"`
	DifferentialSummary *string         `json:"differential_summary,omitempty"`
	EducationalNote     string          `json:"educational_note"`
}
