package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback uniques, the first segment of telegram callback data. The payload
// after the separator is colon-joined; question ids and choice values are
// validated callback-safe at definition load time, so the split is unambiguous.
const (
	CallbackIDSurveyStart  = "survey_start"
	CallbackIDSurveyAnswer = "survey_answer"
	CallbackIDLivePoll     = "livepoll"
)

// telegram rejects callback_data over 64 bytes, and the payload travels with
// overhead: telebot prepends "\f" plus the unique segment and a "|".
const maxCallbackData = 64

// run ids are 32-bit, ten digits at most
const maxRunIdDigits = 10

// FitsAnswerButton reports whether an answer button for this question id and
// choice value stays under the callback data cap, whatever the run id is.
func FitsAnswerButton(questionId, value string) bool {
	overhead := 1 + len(CallbackIDSurveyAnswer) + 1 + maxRunIdDigits + 1 + 1
	return overhead+len(questionId)+len(value) <= maxCallbackData
}

// FitsLivePollButton is the same bound for live poll vote buttons.
func FitsLivePollButton(surveyKey, questionId, value string) bool {
	overhead := 1 + len(CallbackIDLivePoll) + 1 + 1 + 1
	return overhead+len(surveyKey)+len(questionId)+len(value) <= maxCallbackData
}

// EncodeAnswerPayload packs a choice answer: <runID>:<questionID>:<value>.
func EncodeAnswerPayload(runId uint, questionId, value string) string {
	return fmt.Sprintf("%d:%s:%s", runId, questionId, value)
}

func DecodeAnswerPayload(payload string) (runId uint, questionId, value string, err error) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		err = fmt.Errorf("malformed answer payload: %q", payload)
		return
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		err = fmt.Errorf("malformed run id in payload: %q", payload)
		return
	}
	return uint(id), parts[1], parts[2], nil
}

// EncodeLivePollPayload packs a vote: <surveyKey>:<questionID>:<value>.
func EncodeLivePollPayload(surveyKey, questionId, value string) string {
	return fmt.Sprintf("%s:%s:%s", surveyKey, questionId, value)
}

func DecodeLivePollPayload(payload string) (surveyKey, questionId, value string, err error) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		err = fmt.Errorf("malformed livepoll payload: %q", payload)
		return
	}
	return parts[0], parts[1], parts[2], nil
}
