package surveys

import (
	"errors"

	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/db"
)

// ErrQuestionMismatch is returned when an answer names a question that is not
// the run's current one. Stale callback taps and double-sent messages end up
// here instead of desyncing the run.
var ErrQuestionMismatch = errors.New("answer does not match the current question")

// Answer carries exactly one of a free-text answer or a chosen value.
type Answer struct {
	Text   *string
	Choice *string
}

// OnboardingKey is the survey whose completion flips User.Registered.
func OnboardingKey() string {
	return env.String("ONBOARDING_SURVEY_KEY", "registration")
}

// StartRun finds or creates the user's open run for a survey. The definition
// is loaded first so an unknown or broken key never creates a run; it is
// returned so the caller can render without a second load. Calling StartRun
// again before the run completes returns the same run untouched.
func StartRun(userId int64, surveyKey string) (*db.SurveyRun, *Definition, error) {
	def, err := Load(surveyKey)
	if err != nil {
		return nil, nil, err
	}

	run, err := db.FindOrCreateOpenRun(userId, def.Key)
	if err != nil {
		return nil, nil, err
	}
	return run, def, nil
}

// CurrentQuestion returns the question the run is waiting on, or nil once the
// pointer is past the end, which signals the run is ready to complete.
func CurrentQuestion(run *db.SurveyRun, def *Definition) *Question {
	if run.CurrentIndex >= len(def.Questions) {
		return nil
	}
	return &def.Questions[run.CurrentIndex]
}

// RecordAnswer appends one answer row and advances the run pointer by exactly
// one. The question id must match the run's current question; the final
// compare-and-advance happens inside the store transaction, so concurrent
// answers for the same step cannot double-advance.
func RecordAnswer(runId uint, questionId string, answer Answer) (*db.SurveyRun, error) {
	run, err := db.GetRunById(runId)
	if err != nil {
		return nil, err
	}
	if run.IsCompleted() {
		return nil, ErrQuestionMismatch
	}

	def, err := Load(run.SurveyKey)
	if err != nil {
		return nil, err
	}

	q := CurrentQuestion(run, def)
	if q == nil || q.ID != questionId {
		return nil, ErrQuestionMismatch
	}

	updated, err := db.AppendAnswerAndAdvance(run.ID, run.CurrentIndex, db.SurveyAnswer{
		QuestionID:   q.ID,
		AnswerText:   answer.Text,
		AnswerChoice: answer.Choice,
	})
	if errors.Is(err, db.ErrStaleRun) {
		return nil, ErrQuestionMismatch
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteRun stamps the run completed. Missing or already completed runs are
// a no-op. Completing the onboarding survey additionally marks the user
// registered; the chat driver triggers this after rendering the closing
// message, the engine never completes a run on its own.
func CompleteRun(runId uint) error {
	run, completedNow, err := db.CompleteRun(runId)
	if err != nil {
		return err
	}
	if run == nil || !completedNow {
		return nil
	}

	if run.SurveyKey == OnboardingKey() {
		if err = db.SetUserRegistered(run.UserID, true); err != nil {
			return err
		}
	}
	return nil
}
