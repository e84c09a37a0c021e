package registry

// defaultVariables returns a fresh copy of the built-in catalog so callers
// can never mutate shared state. Synonym sets mix Spanish and English
// terminology as both appear in real research datasets.
func defaultVariables() []CriticalVariable {
	return []CriticalVariable{
		{
			// primary diagnostic variable: fasting plasma glucose
			Key:      "glucosa",
			Name:     "Plasma glucose",
			Category: CategoryDiagnostic,
			Synonyms: []string{
				"glucosa", "glucemia", "glucose", "blood glucose",
				"glucosa mg dl", "fpg", "fasting plasma glucose",
				"azucar en sangre", "glc", "glucose_mg_dl", "Glucose",
			},
		},
		{
			Key:      "hba1c",
			Name:     "Glycated hemoglobin",
			Category: CategoryDiagnostic,
			Synonyms: []string{
				"hba1c", "hemoglobina glucosilada", "hemoglobina glicosilada",
				"a1c", "hemoglobina_a1c", "glycated_hemoglobin",
			},
		},
		{
			Key:      "bmi",
			Name:     "Body mass index",
			Category: CategoryAnthropometric,
			Synonyms: []string{
				"bmi", "imc", "indice de masa corporal",
				"body mass index", "bmi_calculado", "BMI",
			},
		},
		{
			Key:      "edad",
			Name:     "Age",
			Category: CategoryAnthropometric,
			Synonyms: []string{
				"edad", "age", "years", "anios", "años",
				"edad_paciente", "patient_age", "Age",
			},
		},
		{
			Key:      "obesidad",
			Name:     "Obesity diagnosis",
			Category: CategoryClinical,
			Synonyms: []string{
				"obesidad", "obesity", "obese", "diagnostico obesidad",
				"diagnostico_obesidad", "obesity_diagnosis",
			},
		},
		{
			Key:      "polidipsia",
			Name:     "Polydipsia",
			Category: CategoryClinical,
			Synonyms: []string{
				"polidipsia", "polydipsia", "sed excesiva", "excessive thirst",
				"sed_excesiva", "excessive_thirst",
			},
		},
		{
			Key:      "embarazo",
			Name:     "Pregnancy status",
			Category: CategoryClinical,
			Synonyms: []string{
				"embarazo", "pregnancy", "pregnant", "gestacion", "gestación",
				"estado_embarazo", "pregnancy_status",
			},
		},
		{
			// dietary information is routinely fragmented across food-group
			// columns, so evidence from several columns counts jointly
			Key:         "dieta",
			Name:        "Diet",
			Category:    CategoryLifestyle,
			Distributed: true,
			Synonyms: []string{
				"dieta", "diet", "vegetales", "verduras", "frutas",
				"consumo de frutas", "consumo de vegetales", "vegetable intake",
				"fruit intake", "consumo_frutas_diario", "consumo_vegetales_diario",
			},
			Groups: []Group{
				{Name: "fruits", Keywords: []string{"frut", "fruit"}},
				{Name: "vegetables", Keywords: []string{"vegetal", "verdura", "vegetable"}},
			},
		},
		{
			Key:         "actividad",
			Name:        "Physical activity",
			Category:    CategoryLifestyle,
			Distributed: true,
			Synonyms: []string{
				"actividad fisica", "physical activity", "ejercicio", "exercise",
				"deporte", "sport", "pasos diarios", "daily steps", "activity_level",
			},
			Groups: []Group{
				{Name: "exercise", Keywords: []string{"ejercicio", "exercise", "deporte", "sport"}},
				{Name: "steps", Keywords: []string{"paso", "step", "caminata", "walk"}},
			},
		},
	}
}
