package surveys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/common"
	"github.com/evai-live/evai-bot/utils"
)

var (
	// ErrSurveyNotFound means no definition exists for the key.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrInvalidDefinition means a definition exists but does not parse into
	// the schema. Fatal for that key only, other surveys stay usable.
	ErrInvalidDefinition = errors.New("invalid survey definition")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = validator.New()

func surveysDir() string {
	return env.String("SURVEYS_DIR", "./surveys/data")
}

// Load reads and validates the definition for a survey key. Definitions are
// immutable for the lifetime of the process; call volume is low enough that
// re-parsing every time beats cache invalidation headaches.
func Load(key string) (*Definition, error) {
	if !utils.IsValidSurveyKey(key) {
		return nil, ErrSurveyNotFound
	}

	raw, err := os.ReadFile(filepath.Join(surveysDir(), key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	var def Definition
	if err = json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, key, err)
	}
	if def.Key != key {
		return nil, fmt.Errorf("%w: %s: key field %q does not match file name", ErrInvalidDefinition, key, def.Key)
	}
	if err = validateDefinition(&def); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, key, err)
	}

	return &def, nil
}

func validateDefinition(def *Definition) error {
	if err := validate.Struct(def); err != nil {
		return err
	}

	// checks struct tags cannot express
	seenQuestions := make(map[string]struct{}, len(def.Questions))
	for i := range def.Questions {
		q := &def.Questions[i]

		if !utils.IsValidCallbackValue(q.ID) {
			return fmt.Errorf("question %q: id is not callback-safe", q.ID)
		}
		if _, dup := seenQuestions[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seenQuestions[q.ID] = struct{}{}

		switch q.Kind {
		case KindChoice:
			if len(q.Choices) == 0 {
				return fmt.Errorf("question %q: choice question without choices", q.ID)
			}
			seenValues := make(map[string]struct{}, len(q.Choices))
			for _, c := range q.Choices {
				if !utils.IsValidCallbackValue(c.Value) {
					return fmt.Errorf("question %q: choice value %q is not callback-safe", q.ID, c.Value)
				}
				if !common.FitsAnswerButton(q.ID, c.Value) || !common.FitsLivePollButton(def.Key, q.ID, c.Value) {
					return fmt.Errorf("question %q: choice value %q overflows telegram callback data", q.ID, c.Value)
				}
				if _, dup := seenValues[c.Value]; dup {
					return fmt.Errorf("question %q: duplicate choice value %q", q.ID, c.Value)
				}
				seenValues[c.Value] = struct{}{}
			}
		case KindText:
			if len(q.Choices) != 0 {
				return fmt.Errorf("question %q: text question with choices", q.ID)
			}
		}
	}

	return nil
}
