package surveys

type QuestionKind string

const (
	KindText   QuestionKind = "text"
	KindChoice QuestionKind = "choice"
)

type Choice struct {
	Label string `json:"label" validate:"required"` // Label will be on the button
	Value string `json:"value" validate:"required"` // Value is what gets persisted and encoded into callbacks
}

type Question struct {
	ID       string       `json:"id" validate:"required"`
	Kind     QuestionKind `json:"type" validate:"required,oneof=text choice"`
	Prompt   string       `json:"prompt" validate:"required"`
	Required *bool        `json:"required"`
	Choices  []Choice     `json:"choices" validate:"omitempty,dive"`
}

// IsRequired defaults to true when the definition leaves the field out.
func (q *Question) IsRequired() bool {
	return q.Required == nil || *q.Required
}

// Choice returns the declared choice for a stored value, or nil.
func (q *Question) Choice(value string) *Choice {
	for i := range q.Choices {
		if q.Choices[i].Value == value {
			return &q.Choices[i]
		}
	}
	return nil
}

// Definition is the immutable ordered question list behind one survey key.
type Definition struct {
	Key         string     `json:"key" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Questions   []Question `json:"questions" validate:"required,min=1,dive"`
}

func (d *Definition) Question(id string) *Question {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// FirstChoiceQuestion is the viewer fallback when no poll activation exists
// for the survey.
func (d *Definition) FirstChoiceQuestion() *Question {
	for i := range d.Questions {
		if d.Questions[i].Kind == KindChoice {
			return &d.Questions[i]
		}
	}
	return nil
}
