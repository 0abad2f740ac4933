package db

// GetAnswersForRun returns the run's answers in the order they were recorded.
// Display ordering only, CurrentIndex is tracked on the run itself.
func GetAnswersForRun(runId uint) ([]SurveyAnswer, error) {
	var answers []SurveyAnswer
	result := db.Where("run_id = ?", runId).Order("created_at ASC").Find(&answers)
	return answers, result.Error
}

func GetRunsForUser(userId int64) ([]SurveyRun, error) {
	var runs []SurveyRun
	result := db.Where("user_id = ?", userId).Order("created_at DESC").Find(&runs)
	return runs, result.Error
}
