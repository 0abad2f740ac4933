package surveys

import (
	"errors"
	"strconv"

	"github.com/samber/lo"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/db"
)

var (
	// ErrUnknownQuestion means the question id does not name a choice question
	// of the survey.
	ErrUnknownQuestion = errors.New("unknown poll question")
	// ErrUnknownChoice is returned in strict mode for a vote value outside the
	// question's declared choice set.
	ErrUnknownChoice = errors.New("unknown choice value")
)

// StrictVotes reports whether votes are validated against the declared choice
// set. Off by default: a mismatched value is stored and simply never shows up
// in any tally bucket.
func StrictVotes() bool {
	strict, err := strconv.ParseBool(env.String("LIVEPOLL_STRICT_VALUES", "false"))
	return err == nil && strict
}

// ChoiceCount is one tally bucket, in the definition's declared choice order.
type ChoiceCount struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// CastVote upserts the user's vote on a live question: first vote creates the
// row, a revote overwrites the value. Independent of any survey run.
func CastVote(userId int64, surveyKey, questionId, value string) error {
	if StrictVotes() {
		def, err := Load(surveyKey)
		if err != nil {
			return err
		}
		q := def.Question(questionId)
		if q == nil || q.Kind != KindChoice {
			return ErrUnknownQuestion
		}
		if q.Choice(value) == nil {
			return ErrUnknownChoice
		}
	}

	return db.UpsertLivePollVote(db.LivePollVote{
		UserID:     userId,
		SurveyKey:  surveyKey,
		QuestionID: questionId,
		Value:      value,
	})
}

// Tally counts votes per declared choice, zero-filled, in declared order.
// Votes with values outside the declared set are not reported anywhere.
func Tally(surveyKey, questionId string, def *Definition) ([]ChoiceCount, error) {
	q := def.Question(questionId)
	if q == nil || q.Kind != KindChoice {
		return nil, ErrUnknownQuestion
	}

	votes, err := db.GetLivePollVotes(surveyKey, questionId)
	if err != nil {
		return nil, err
	}

	byValue := lo.CountValuesBy(votes, func(v db.LivePollVote) string {
		return v.Value
	})

	return lo.Map(q.Choices, func(c Choice, _ int) ChoiceCount {
		return ChoiceCount{
			Label: c.Label,
			Value: c.Value,
			Count: int64(byValue[c.Value]),
		}
	}), nil
}

// Activate points the survey's live poll at a question. Replaces the previous
// pointer; there is never more than one live question per survey.
func Activate(surveyKey, questionId string) error {
	def, err := Load(surveyKey)
	if err != nil {
		return err
	}
	q := def.Question(questionId)
	if q == nil || q.Kind != KindChoice {
		return ErrUnknownQuestion
	}
	return db.SetActivation(def.Key, q.ID)
}

// ResolveActive picks the question the viewer should see: the activated one if
// a pointer exists, otherwise the survey's first choice question. Nil when the
// survey has nothing pollable.
func ResolveActive(surveyKey string, def *Definition) (*Question, error) {
	activation, err := db.GetActivation(surveyKey)
	if err != nil {
		return nil, err
	}
	if activation != nil {
		if q := def.Question(activation.QuestionID); q != nil {
			return q, nil
		}
		// definition changed since activation, fall through
	}
	return def.FirstChoiceQuestion(), nil
}

// Deactivate stops the live poll of one survey only.
func Deactivate(surveyKey string) error {
	return db.ClearActivation(surveyKey)
}

// DeactivateAll stops every live poll across all surveys, the event-wide kill
// switch.
func DeactivateAll() error {
	return db.ClearAllActivations()
}
