package db

import (
	"errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetActivation points the survey's live poll at the given question, replacing
// whatever was live before. One pointer per survey key.
func SetActivation(surveyKey, questionId string) error {
	activation := LivePollActivation{
		SurveyKey:  surveyKey,
		QuestionID: questionId,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "survey_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"question_id": questionId,
		}),
	}).Create(&activation).Error
}

// GetActivation returns the live question pointer for the survey, or nil when
// nothing is live.
func GetActivation(surveyKey string) (*LivePollActivation, error) {
	var activation LivePollActivation
	result := db.Where("survey_key = ?", surveyKey).First(&activation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &activation, nil
}

// ClearActivation stops the live poll of a single survey.
func ClearActivation(surveyKey string) error {
	return db.Unscoped().Where("survey_key = ?", surveyKey).Delete(&LivePollActivation{}).Error
}

// ClearAllActivations is the global stop: no survey stays live.
func ClearAllActivations() error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&LivePollActivation{}).Error
}
