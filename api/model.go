package api

import (
	"time"

	"github.com/evai-live/evai-bot/db"
	"github.com/evai-live/evai-bot/surveys"
)

// Users

type UserRepr struct {
	ID         int64     `json:"id"` // This must be a signed int, because telegram assign negative id to groups
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Username   string    `json:"username"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
}

func UserToUserRepr(u db.User) UserRepr {
	return UserRepr{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Registered: u.Registered,
		CreatedAt:  u.CreatedAt,
	}
}

type AnswerRepr struct {
	QuestionID   string    `json:"question_id"`
	AnswerText   *string   `json:"answer_text"`
	AnswerChoice *string   `json:"answer_choice"`
	CreatedAt    time.Time `json:"created_at"`
}

func AnswerToAnswerRepr(a db.SurveyAnswer) AnswerRepr {
	return AnswerRepr{
		QuestionID:   a.QuestionID,
		AnswerText:   a.AnswerText,
		AnswerChoice: a.AnswerChoice,
		CreatedAt:    a.CreatedAt,
	}
}

type RunRepr struct {
	ID           uint         `json:"id"`
	SurveyKey    string       `json:"survey_key"`
	CurrentIndex int          `json:"current_index"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at"`
	Answers      []AnswerRepr `json:"answers"`
}

type UserDetailResponse struct {
	User UserRepr  `json:"user"`
	Runs []RunRepr `json:"runs"`
}

// Live polls

type TallyResponse struct {
	SurveyKey  string                `json:"survey_key"`
	QuestionID string                `json:"question_id"`
	Prompt     string                `json:"prompt"`
	Counts     []surveys.ChoiceCount `json:"counts"`
}

type ActivationResponse struct {
	SurveyKey  string `json:"survey_key"`
	QuestionID string `json:"question_id"`
}
