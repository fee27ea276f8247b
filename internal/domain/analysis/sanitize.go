package analysis

import "imperium/internal/sanitizer"

// SanitizeInput pasa cada campo de texto libre por el sanitizer.
// age y sex no se tocan. Los opcionales ausentes siguen ausentes.
func SanitizeInput(s *sanitizer.Sanitizer, in MedicalInput) MedicalInput {
	out := in
	out.Symptoms = s.Sanitize(in.Symptoms)
	out.Duration = s.Sanitize(in.Duration)

	for _, f := range []*string{
		&out.Labs,
		&out.MedicalHistory,
		&out.Medications,
		&out.Allergies,
		&out.FamilyHistory,
		&out.SocialHistory,
		&out.VitalSigns,
		&out.PhysicalExam,
	} {
		if *f != "" {
			*f = s.Sanitize(*f)
		}
	}
	return out
}
