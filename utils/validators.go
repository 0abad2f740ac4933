package utils

import (
	"regexp"
	"unicode/utf8"
)

const minKeyLen = 3
const maxKeyLen = 48 // IMPORTANT: This is declared in the model as well

var keyRe = regexp.MustCompile(`^[a-z]+[a-z0-9_-]*$`)

// Survey keys double as file names and callback payload segments, so they stay
// lowercase and separator-free.
func IsValidSurveyKey(key string) bool {
	if !keyRe.MatchString(key) {
		return false
	}
	if utf8.RuneCountInString(key) < minKeyLen {
		return false
	}
	if utf8.RuneCountInString(key) > maxKeyLen || len(key) > maxKeyLen {
		return false
	}
	return true
}

const maxValueLen = 64 // per-segment bound; the assembled payload is budgeted against telegram's 64-byte cap at definition load time

var valueRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// IsValidCallbackValue accepts identifiers that can travel inside callback
// data: question ids and choice values. Excludes ':' and '|', which the
// callback codec uses as separators.
func IsValidCallbackValue(value string) bool {
	return len(value) <= maxValueLen && valueRe.MatchString(value)
}
