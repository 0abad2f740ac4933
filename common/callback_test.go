package common

import (
	"strings"
	"testing"
)

func TestAnswerPayloadRoundTrip(t *testing.T) {
	payload := EncodeAnswerPayload(42, "q1", "choice-a")

	runId, questionId, value, err := DecodeAnswerPayload(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if runId != 42 || questionId != "q1" || value != "choice-a" {
		t.Errorf("Round trip mismatch: %d %q %q", runId, questionId, value)
	}
}

func TestDecodeAnswerPayloadMalformed(t *testing.T) {
	tests := []string{
		"",
		"justone",
		"two:parts",
		"notanumber:q1:a",
		"-1:q1:a",
	}
	for _, payload := range tests {
		if _, _, _, err := DecodeAnswerPayload(payload); err == nil {
			t.Errorf("Expected error for %q", payload)
		}
	}
}

func TestLivePollPayloadRoundTrip(t *testing.T) {
	payload := EncodeLivePollPayload("poll1", "q2", "b")

	surveyKey, questionId, value, err := DecodeLivePollPayload(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if surveyKey != "poll1" || questionId != "q2" || value != "b" {
		t.Errorf("Round trip mismatch: %q %q %q", surveyKey, questionId, value)
	}
}

func TestFitsAnswerButton(t *testing.T) {
	if !FitsAnswerButton("q1", "a") {
		t.Error("Short ids must fit")
	}
	if FitsAnswerButton(strings.Repeat("q", 20), strings.Repeat("v", 20)) {
		t.Error("Forty bytes of segments plus overhead cannot fit")
	}

	// a boundary case the budget accepts really stays within 64 bytes,
	// even for the widest possible run id
	id := strings.Repeat("q", 18)
	value := strings.Repeat("v", 19)
	if !FitsAnswerButton(id, value) {
		t.Fatal("Expected the boundary case to fit")
	}
	data := "\f" + CallbackIDSurveyAnswer + "|" + EncodeAnswerPayload(4294967295, id, value)
	if len(data) > 64 {
		t.Errorf("Accepted a %d-byte button payload", len(data))
	}
}

func TestFitsLivePollButton(t *testing.T) {
	if !FitsLivePollButton("poll1", "q1", "a") {
		t.Error("Short segments must fit")
	}
	key := strings.Repeat("k", 20)
	if FitsLivePollButton(key, key, key) {
		t.Error("Sixty-plus bytes of segments cannot fit")
	}
}

func TestDecodeLivePollPayloadMalformed(t *testing.T) {
	for _, payload := range []string{"", "one", "one:two"} {
		if _, _, _, err := DecodeLivePollPayload(payload); err == nil {
			t.Errorf("Expected error for %q", payload)
		}
	}
}
