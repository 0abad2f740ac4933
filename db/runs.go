package db

import (
	"errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"time"
)

// ErrStaleRun is returned when an answer targets a run position that has
// already been advanced past, typically by a concurrent answer for the same
// step.
var ErrStaleRun = errors.New("run already advanced past the answered question")

func isPgError(err error, severity, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Severity == severity && pgErr.Code == code
	}
	return false
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || isPgError(err, "ERROR", "23505")
}

func GetRunById(id uint) (*SurveyRun, error) {
	var run SurveyRun
	result := db.Take(&run, id)

	if result.Error == nil && result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &run, result.Error
}

// FindOrCreateOpenRun returns the open run for (user, survey), creating one at
// index 0 when none exists. Concurrent callers racing on the same key are
// resolved by the partial unique index: the loser re-reads the winner's row.
func FindOrCreateOpenRun(userId int64, surveyKey string) (*SurveyRun, error) {
	run, err := findOrCreateOpenRun(userId, surveyKey)
	if isDuplicateKey(err) {
		// someone else created the row between our check and insert
		run, err = findOpenRun(userId, surveyKey)
	}
	return run, err
}

func findOrCreateOpenRun(userId int64, surveyKey string) (*SurveyRun, error) {
	run, err := findOpenRun(userId, surveyKey)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newRun := SurveyRun{
		UserID:       userId,
		SurveyKey:    surveyKey,
		CurrentIndex: 0,
	}
	if err = db.Create(&newRun).Error; err != nil {
		return nil, err
	}
	return &newRun, nil
}

func findOpenRun(userId int64, surveyKey string) (*SurveyRun, error) {
	var run SurveyRun
	result := db.Where("user_id = ? AND survey_key = ? AND completed_at IS NULL", userId, surveyKey).First(&run)
	if result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

// FindOpenRunForUser returns any open run of the user, oldest first. The text
// message handler uses it to figure out which survey a free-text answer
// belongs to.
func FindOpenRunForUser(userId int64) (*SurveyRun, error) {
	var run SurveyRun
	result := db.Where("user_id = ? AND completed_at IS NULL", userId).Order("created_at ASC").First(&run)
	if result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

// AppendAnswerAndAdvance stores one answer row and moves the run pointer
// forward by exactly one, in a single transaction. The increment is guarded by
// the index the caller matched the question against, so two racing answers for
// the same step cannot both land: the second one finds the pointer already
// moved and fails with ErrStaleRun.
func AppendAnswerAndAdvance(runId uint, expectedIndex int, answer SurveyAnswer) (*SurveyRun, error) {
	var run SurveyRun
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Take(&run, runId)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		answer.RunID = run.ID
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}

		result = tx.Model(&SurveyRun{}).
			Where("id = ? AND current_index = ?", run.ID, expectedIndex).
			Update("current_index", gorm.Expr("current_index + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleRun // rolls the answer row back too
		}

		return tx.Take(&run, runId).Error
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// CompleteRun stamps CompletedAt and reports whether this call did the
// stamping. Missing or already completed runs are a no-op.
func CompleteRun(runId uint) (*SurveyRun, bool, error) {
	var run SurveyRun
	var completedNow bool
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Take(&run, runId)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}
		if run.IsCompleted() {
			return nil
		}

		now := time.Now()
		result = tx.Model(&SurveyRun{}).
			Where("id = ? AND completed_at IS NULL", run.ID).
			Update("completed_at", &now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // a concurrent caller completed it first
		}
		run.CompletedAt = &now
		completedNow = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if run.ID == 0 {
		return nil, false, nil
	}
	return &run, completedNow, nil
}
