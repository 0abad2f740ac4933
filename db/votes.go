package db

import (
	"gorm.io/gorm/clause"
)

// UpsertLivePollVote stores one vote per (user, survey, question); a repeated
// vote overwrites the value. The ON CONFLICT clause makes rapid duplicate taps
// harmless, there is no read-check-write window.
func UpsertLivePollVote(vote LivePollVote) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "survey_key"},
			{Name: "question_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": vote.Value,
		}),
	}).Create(&vote).Error
}

func GetLivePollVotes(surveyKey, questionId string) ([]LivePollVote, error) {
	var votes []LivePollVote
	result := db.Where("survey_key = ? AND question_id = ?", surveyKey, questionId).Find(&votes)
	return votes, result.Error
}
