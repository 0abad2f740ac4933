package db

import (
	"gorm.io/gorm"
	"strings"
	"time"
)

type User struct {
	// All these data are received from Telegram
	ID        int64  `json:"id" gorm:"primarykey"`               // This must be a signed int, because telegram assign negative id to groups
	FirstName string `json:"first_name" gorm:"type:varchar(64)"` // https://limits.tginfo.me/en
	LastName  string `json:"last_name" gorm:"type:varchar(64)"`
	Username  string `json:"username" gorm:"type:varchar(32)"` //https://core.telegram.org/method/account.checkUsername

	CreatedAt time.Time `json:"created_at"`

	// Flipped when the onboarding survey is completed
	Registered bool `json:"registered" gorm:"not null;default:false"`
}

// Greet returns a proper name compiled from the FirstName, LastName and Username fields
func (u *User) Greet() string {
	name := u.FirstName // first name must be always present
	if u.LastName != "" {
		name += " " + u.LastName
	}

	if strings.TrimSpace(name) == "" {
		return "@" + u.Username
	} else {
		return name
	}

}

// SurveyRun is one user's traversal of one survey definition.
// The partial unique index keeps "at most one open run per (user, survey)" true
// even across processes; races resolve at the insert.
type SurveyRun struct {
	gorm.Model

	UserID    int64  `json:"user_id" gorm:"not null;index:uq_open_run,unique,where:completed_at IS NULL"`
	SurveyKey string `json:"survey_key" gorm:"type:varchar(48);not null;index:uq_open_run,unique,where:completed_at IS NULL"`

	CurrentIndex int        `json:"current_index" gorm:"not null;default:0"` // 0-based pointer into the definition's question list, only ever incremented
	CompletedAt  *time.Time `json:"completed_at"`

	User *User `json:"-"`
}

func (r *SurveyRun) IsCompleted() bool {
	return r.CompletedAt != nil
}

// SurveyAnswer rows are append-only; they go away only when their run does.
type SurveyAnswer struct {
	gorm.Model

	RunID      uint   `json:"run_id" gorm:"not null;index"`
	QuestionID string `json:"question_id" gorm:"type:varchar(64);not null"`

	AnswerText   *string `json:"answer_text"`
	AnswerChoice *string `json:"answer_choice" gorm:"type:varchar(64)"`
}

// LivePollVote is independent of any SurveyRun: one row per
// (user, survey, question), a revote overwrites Value.
type LivePollVote struct {
	gorm.Model

	UserID     int64  `json:"user_id" gorm:"not null;uniqueIndex:uq_live_vote"`
	SurveyKey  string `json:"survey_key" gorm:"type:varchar(48);not null;uniqueIndex:uq_live_vote"`
	QuestionID string `json:"question_id" gorm:"type:varchar(64);not null;uniqueIndex:uq_live_vote"`
	Value      string `json:"value" gorm:"type:varchar(64);not null"`
}

// LivePollActivation is a single mutable pointer per survey key: which question
// is currently live for the viewer. Activate replaces it, deactivate removes it.
type LivePollActivation struct {
	gorm.Model

	SurveyKey  string `json:"survey_key" gorm:"type:varchar(48);not null;uniqueIndex"`
	QuestionID string `json:"question_id" gorm:"type:varchar(64);not null"`
}
