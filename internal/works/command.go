package works

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// SaveCommand carries every editable field of a work. Save overwrites all of
// them; nil pointers are stored as NULL. EvaluationStatus is optional and
// leaves the current status unchanged when nil.
type SaveCommand struct {
	Title    string  `json:"title"`
	Creator  *string `json:"creator"`
	Year     *int    `json:"year"`
	Medium   *string `json:"medium"`
	Country  *string `json:"country"`
	Language *string `json:"language"`
	Runtime  *string `json:"runtime"`

	ScoreNarrative    *int    `json:"score_narrative"`
	ScoreFormal       *int    `json:"score_formal"`
	ScoreExclusion    *int    `json:"score_exclusion"`
	ScorePreservation *int    `json:"score_preservation"`
	DescNarrative     *string `json:"desc_narrative"`
	DescFormal        *string `json:"desc_formal"`
	DescExclusion     *string `json:"desc_exclusion"`
	DescPreservation  *string `json:"desc_preservation"`

	CircDistribution  *string `json:"circ_distribution"`
	CircAudiences     *string `json:"circ_audiences"`
	CircInstitutional *string `json:"circ_institutional"`

	PresCopies    *string `json:"pres_copies"`
	PresCondition *string `json:"pres_condition"`
	PresUrgency   *string `json:"pres_urgency"`

	CriticalNotes      *string `json:"critical_notes"`
	AccessAvailability *string `json:"access_availability"`
	AccessScholarship  *string `json:"access_scholarship"`

	EvaluationStatus *string `json:"evaluation_status,omitempty"`
}

// Validate checks the title, score ranges, urgency, and status.
// Publishing is only possible through Publish, so "published" is rejected here.
func (c *SaveCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidTitle
	}

	for _, s := range c.scores() {
		if s != nil && (*s < MinScore || *s > MaxScore) {
			return ErrInvalidScore
		}
	}

	if c.PresUrgency != nil && !slices.Contains(Urgencies, *c.PresUrgency) {
		return ErrInvalidUrgency
	}

	if c.EvaluationStatus != nil {
		switch *c.EvaluationStatus {
		case StatusDraft, StatusInProgress, StatusComplete:
		default:
			return ErrInvalidStatus
		}
	}
	return nil
}

// ScoreTotal returns the sum of the four rubric scores, or nil unless all
// four are present.
func (c *SaveCommand) ScoreTotal() *int {
	total := 0
	for _, s := range c.scores() {
		if s == nil {
			return nil
		}
		total += *s
	}
	return &total
}

func (c *SaveCommand) scores() []*int {
	return []*int{c.ScoreNarrative, c.ScoreFormal, c.ScoreExclusion, c.ScorePreservation}
}

// SaveCommandFromWork copies a work's editable fields into a SaveCommand.
func SaveCommandFromWork(w *Work) SaveCommand {
	return SaveCommand{
		Title:              w.Title,
		Creator:            w.Creator,
		Year:               w.Year,
		Medium:             w.Medium,
		Country:            w.Country,
		Language:           w.Language,
		Runtime:            w.Runtime,
		ScoreNarrative:     w.ScoreNarrative,
		ScoreFormal:        w.ScoreFormal,
		ScoreExclusion:     w.ScoreExclusion,
		ScorePreservation:  w.ScorePreservation,
		DescNarrative:      w.DescNarrative,
		DescFormal:         w.DescFormal,
		DescExclusion:      w.DescExclusion,
		DescPreservation:   w.DescPreservation,
		CircDistribution:   w.CircDistribution,
		CircAudiences:      w.CircAudiences,
		CircInstitutional:  w.CircInstitutional,
		PresCopies:         w.PresCopies,
		PresCondition:      w.PresCondition,
		PresUrgency:        w.PresUrgency,
		CriticalNotes:      w.CriticalNotes,
		AccessAvailability: w.AccessAvailability,
		AccessScholarship:  w.AccessScholarship,
	}
}

// SaveCommandFromForm reads a submitted rubric editor form. Blank fields
// become nil; numeric fields that do not parse produce a validation error.
func SaveCommandFromForm(form url.Values) (SaveCommand, error) {
	cmd := SaveCommand{
		Title:              strings.TrimSpace(form.Get("title")),
		Creator:            formText(form, "creator"),
		Medium:             formText(form, "medium"),
		Country:            formText(form, "country"),
		Language:           formText(form, "language"),
		Runtime:            formText(form, "runtime"),
		DescNarrative:      formText(form, "desc_narrative"),
		DescFormal:         formText(form, "desc_formal"),
		DescExclusion:      formText(form, "desc_exclusion"),
		DescPreservation:   formText(form, "desc_preservation"),
		CircDistribution:   formText(form, "circ_distribution"),
		CircAudiences:      formText(form, "circ_audiences"),
		CircInstitutional:  formText(form, "circ_institutional"),
		PresCopies:         formText(form, "pres_copies"),
		PresCondition:      formText(form, "pres_condition"),
		PresUrgency:        formText(form, "pres_urgency"),
		CriticalNotes:      formText(form, "critical_notes"),
		AccessAvailability: formText(form, "access_availability"),
		AccessScholarship:  formText(form, "access_scholarship"),
		EvaluationStatus:   formText(form, "evaluation_status"),
	}

	var err error
	if cmd.Year, err = formInt(form, "year", ErrInvalidYear); err != nil {
		return cmd, err
	}

	scores := []struct {
		field string
		dest  **int
	}{
		{"score_narrative", &cmd.ScoreNarrative},
		{"score_formal", &cmd.ScoreFormal},
		{"score_exclusion", &cmd.ScoreExclusion},
		{"score_preservation", &cmd.ScorePreservation},
	}
	for _, s := range scores {
		if *s.dest, err = formInt(form, s.field, ErrInvalidScore); err != nil {
			return cmd, err
		}
	}

	return cmd, nil
}

func formText(form url.Values, key string) *string {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func formInt(form url.Values, key string, invalid error) (*int, error) {
	v := formText(form, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil, invalid
	}
	return &n, nil
}
