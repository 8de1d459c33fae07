package catalog

// DefaultDefinition returns the built-in catalog for Czech school data.
// Deployments with their own warehouse schema supply a YAML file instead.
func DefaultDefinition() *Definition {
	return &Definition{
		TableTypes: []TableType{
			{
				Name: "assessment",
				AnchorPhrases: []string{
					"student test scores and grades",
					"assessment results per subject",
					"exam marks, points, classification",
					"znamky a vysledky testu zaku",
				},
				RequiredColumns: []string{"student_id", "score"},
				Ranges: []ColumnRange{
					{Column: "score", Min: 0, Max: 100},
					{Column: "grade", Min: 1, Max: 5},
				},
			},
			{
				Name: "attendance",
				AnchorPhrases: []string{
					"student attendance and absences",
					"missed lessons, excused and unexcused hours",
					"dochazka a absence zaku",
				},
				RequiredColumns: []string{"student_id", "date"},
				Ranges: []ColumnRange{
					{Column: "attendance_rate", Min: 0, Max: 1},
					{Column: "absence_hours", Min: 0, Max: 500},
				},
			},
			{
				Name: "enrollment",
				AnchorPhrases: []string{
					"student enrollment and class registration",
					"pupils assigned to classes and schools",
					"zapis zaku do trid a skol",
				},
				RequiredColumns: []string{"student_id", "school_name"},
			},
			{
				Name: "staff",
				AnchorPhrases: []string{
					"teachers and their subject assignments",
					"school staff, qualifications, teaching load",
					"ucitele a jejich uvazky",
				},
				RequiredColumns: []string{"teacher_name"},
			},
		},
		Concepts: []Concept{
			{
				Key:          "student_id",
				Description:  "unique identifier of a student",
				ExpectedType: TypeString,
				Synonyms:     []string{"pupil id", "student number", "id zaka", "zak"},
			},
			{
				Key:          "student_name",
				Description:  "full name of a student",
				ExpectedType: TypeString,
				Synonyms:     []string{"pupil name", "jmeno zaka"},
			},
			{
				Key:          "teacher_id",
				Description:  "unique identifier of a teacher",
				ExpectedType: TypeString,
				Synonyms:     []string{"staff id", "id ucitele"},
			},
			{
				Key:          "teacher_name",
				Description:  "full name of a teacher",
				ExpectedType: TypeString,
				Synonyms:     []string{"instructor", "jmeno ucitele", "vyucujici"},
			},
			{
				Key:          "school_name",
				Description:  "name of a school",
				ExpectedType: TypeString,
				Synonyms:     []string{"institution", "nazev skoly", "zakladni skola"},
			},
			{
				Key:          "class_name",
				Description:  "class or group designation, e.g. 5.A",
				ExpectedType: TypeCategorical,
				Synonyms:     []string{"class", "group", "trida"},
			},
			{
				Key:          "subject",
				Description:  "school subject being taught or assessed",
				ExpectedType: TypeCategorical,
				Synonyms:     []string{"course", "predmet", "matematika", "cestina"},
			},
			{
				Key:          "score",
				Description:  "numeric test score or points achieved",
				ExpectedType: TypeNumber,
				Synonyms:     []string{"test score", "points", "result", "body", "vysledek"},
			},
			{
				Key:          "grade",
				Description:  "classification grade on the 1 to 5 scale",
				ExpectedType: TypeNumber,
				Synonyms:     []string{"mark", "znamka", "klasifikace"},
			},
			{
				Key:          "date",
				Description:  "date the record refers to",
				ExpectedType: TypeDate,
				Synonyms:     []string{"day", "datum", "test date"},
			},
			{
				Key:          "attendance_rate",
				Description:  "share of attended lessons as a fraction",
				ExpectedType: TypeNumber,
				Synonyms:     []string{"attendance percentage", "ucast"},
			},
			{
				Key:          "absence_hours",
				Description:  "number of missed lesson hours",
				ExpectedType: TypeNumber,
				Synonyms:     []string{"absences", "missed hours", "zameskane hodiny"},
			},
			{
				Key:          "semester",
				Description:  "school term or semester",
				ExpectedType: TypeCategorical,
				Synonyms:     []string{"term", "pololeti"},
			},
			{
				Key:          "school_year",
				Description:  "school year designation, e.g. 2025/2026",
				ExpectedType: TypeCategorical,
				Synonyms:     []string{"academic year", "skolni rok"},
			},
			{
				Key:          "feedback_text",
				Description:  "free-form feedback or comment text",
				ExpectedType: TypeString,
				Synonyms:     []string{"comment", "note", "poznamka", "hodnoceni"},
			},
		},
	}
}
