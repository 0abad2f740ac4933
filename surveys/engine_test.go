package surveys

import (
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/evai-live/evai-bot/db"
	"github.com/evai-live/evai-bot/testutil"
)

func surveyFixture(key string) string {
	// the key appears twice: file name and key field
	return `{
	"key": "` + key + `",
	"title": "Two Questions",
	"questions": [
		{"id": "q1", "type": "choice", "prompt": "Pick one", "choices": [
			{"label": "A", "value": "a"},
			{"label": "B", "value": "b"}
		]},
		{"id": "q2", "type": "text", "prompt": "Say something"}
	]
}`
}

func setupEngineTest(t *testing.T) *db.User {
	t.Helper()
	testutil.SetupTestDB(t)
	testutil.SetupSurveysDir(t, map[string]string{
		"onboarding": surveyFixture("onboarding"),
		"feedback":   surveyFixture("feedback"),
	})
	t.Setenv("ONBOARDING_SURVEY_KEY", "onboarding")

	user, err := db.UpsertUser(db.User{ID: 1000, FirstName: "Test", Username: "tester"})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestStartRunIdempotent(t *testing.T) {
	user := setupEngineTest(t)

	first, _, err := StartRun(user.ID, "onboarding")
	if err != nil {
		t.Fatalf("First StartRun failed: %v", err)
	}
	second, _, err := StartRun(user.ID, "onboarding")
	if err != nil {
		t.Fatalf("Second StartRun failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected the same run, got %d and %d", first.ID, second.ID)
	}

	runs, err := db.GetRunsForUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected exactly one run row, got %d", len(runs))
	}
}

func TestStartRunUnknownSurveyCreatesNothing(t *testing.T) {
	user := setupEngineTest(t)

	_, _, err := StartRun(user.ID, "nonexistent")
	if !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("Expected ErrSurveyNotFound, got %v", err)
	}

	runs, err := db.GetRunsForUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Run must not be created for an unknown survey, found %d", len(runs))
	}
}

func TestRecordAnswerAdvancesByExactlyOne(t *testing.T) {
	user := setupEngineTest(t)

	run, def, err := StartRun(user.ID, "feedback")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.CurrentIndex != 0 {
		t.Fatalf("New run should start at index 0, got %d", run.CurrentIndex)
	}

	choice := "a"
	run, err = RecordAnswer(run.ID, "q1", Answer{Choice: &choice})
	if err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	if run.CurrentIndex != 1 {
		t.Errorf("Expected index 1 after first answer, got %d", run.CurrentIndex)
	}

	text := "hello"
	run, err = RecordAnswer(run.ID, "q2", Answer{Text: &text})
	if err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}
	if run.CurrentIndex != 2 {
		t.Errorf("Expected index 2 after second answer, got %d", run.CurrentIndex)
	}

	if q := CurrentQuestion(run, def); q != nil {
		t.Errorf("Expected no current question past the end, got %+v", q)
	}

	// past the end: nothing left to answer, the pointer must not move
	if _, err = RecordAnswer(run.ID, "q2", Answer{Text: &text}); !errors.Is(err, ErrQuestionMismatch) {
		t.Errorf("Expected ErrQuestionMismatch past the end, got %v", err)
	}

	answers, err := db.GetAnswersForRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to list answers: %v", err)
	}
	if len(answers) != 2 {
		t.Errorf("Expected 2 answer rows, got %d", len(answers))
	}
}

func TestRecordAnswerRejectsMismatchedQuestion(t *testing.T) {
	user := setupEngineTest(t)

	run, _, err := StartRun(user.ID, "feedback")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	text := "too early"
	if _, err = RecordAnswer(run.ID, "q2", Answer{Text: &text}); !errors.Is(err, ErrQuestionMismatch) {
		t.Errorf("Expected ErrQuestionMismatch for out-of-order answer, got %v", err)
	}

	refreshed, err := db.GetRunById(run.ID)
	if err != nil {
		t.Fatalf("Failed to reload run: %v", err)
	}
	if refreshed.CurrentIndex != 0 {
		t.Errorf("Mismatched answer must not advance the run, index is %d", refreshed.CurrentIndex)
	}
	answers, _ := db.GetAnswersForRun(run.ID)
	if len(answers) != 0 {
		t.Errorf("Mismatched answer must not be stored, found %d rows", len(answers))
	}
}

func TestRecordAnswerUnknownRun(t *testing.T) {
	setupEngineTest(t)

	text := "lost"
	if _, err := RecordAnswer(99999, "q1", Answer{Text: &text}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func answerAll(t *testing.T, run *db.SurveyRun) *db.SurveyRun {
	t.Helper()
	choice := "b"
	run, err := RecordAnswer(run.ID, "q1", Answer{Choice: &choice})
	if err != nil {
		t.Fatalf("RecordAnswer q1 failed: %v", err)
	}
	text := "done"
	run, err = RecordAnswer(run.ID, "q2", Answer{Text: &text})
	if err != nil {
		t.Fatalf("RecordAnswer q2 failed: %v", err)
	}
	return run
}

func TestCompletionFork(t *testing.T) {
	user := setupEngineTest(t)

	// the onboarding survey flips the registered flag on completion
	run, _, err := StartRun(user.ID, "onboarding")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	run = answerAll(t, run)

	if err = CompleteRun(run.ID); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	completed, err := db.GetRunById(run.ID)
	if err != nil {
		t.Fatalf("Failed to reload run: %v", err)
	}
	if !completed.IsCompleted() {
		t.Error("Run should be completed")
	}

	refreshed, err := db.GetUserById(user.ID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if !refreshed.Registered {
		t.Error("Completing the onboarding survey must mark the user registered")
	}

	// any other survey leaves the flag alone
	if err = db.SetUserRegistered(user.ID, false); err != nil {
		t.Fatalf("Failed to reset flag: %v", err)
	}

	run, _, err = StartRun(user.ID, "feedback")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	run = answerAll(t, run)
	if err = CompleteRun(run.ID); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	refreshed, err = db.GetUserById(user.ID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if refreshed.Registered {
		t.Error("Completing a non-onboarding survey must not touch the registered flag")
	}
}

func TestCompleteRunNoops(t *testing.T) {
	user := setupEngineTest(t)

	// missing run: silently fine
	if err := CompleteRun(424242); err != nil {
		t.Errorf("CompleteRun on a missing run should be a no-op, got %v", err)
	}

	run, _, err := StartRun(user.ID, "feedback")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	run = answerAll(t, run)

	if err = CompleteRun(run.ID); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}
	first, err := db.GetRunById(run.ID)
	if err != nil {
		t.Fatalf("Failed to reload run: %v", err)
	}

	// completing again keeps the original timestamp
	if err = CompleteRun(run.ID); err != nil {
		t.Fatalf("Second CompleteRun failed: %v", err)
	}
	second, err := db.GetRunById(run.ID)
	if err != nil {
		t.Fatalf("Failed to reload run: %v", err)
	}
	if first.CompletedAt == nil || second.CompletedAt == nil || !first.CompletedAt.Equal(*second.CompletedAt) {
		t.Errorf("Repeated completion must not move the timestamp: %v vs %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestConcurrentStartCreatesOneRun(t *testing.T) {
	user := setupEngineTest(t)

	const workers = 8
	var wg sync.WaitGroup
	runIds := make([]uint, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run, _, err := StartRun(user.ID, "onboarding")
			if err != nil {
				errs[i] = err
				return
			}
			runIds[i] = run.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Worker %d failed: %v", i, err)
		}
	}
	for i := 1; i < workers; i++ {
		if runIds[i] != runIds[0] {
			t.Errorf("Worker %d got run %d, expected %d", i, runIds[i], runIds[0])
		}
	}

	runs, err := db.GetRunsForUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected exactly one run row after the race, got %d", len(runs))
	}
}
