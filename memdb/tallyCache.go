package memdb

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/surveys"
)

// The overlay polls the tally endpoint aggressively; a short-lived snapshot in
// redis keeps that traffic off the relational store. Staleness is bounded by
// the TTL, which is fine for a "near-real-time" chart.

const tallyKeyPrefix = "TALLY:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func tallyKey(surveyKey, questionId string) string {
	return tallyKeyPrefix + surveyKey + ":" + questionId
}

func tallyTTL() time.Duration {
	ttl, err := time.ParseDuration(env.String("TALLY_CACHE_TTL", "2s"))
	if err != nil || ttl <= 0 {
		return 2 * time.Second
	}
	return ttl
}

// GetCachedTally returns the cached snapshot and whether one existed. With no
// redis connection configured the cache reports a miss and callers fall back
// to the relational store.
func GetCachedTally(ctx context.Context, surveyKey, questionId string) ([]surveys.ChoiceCount, bool, error) {
	if redisClient == nil {
		return nil, false, nil
	}

	result := redisClient.Get(ctx, tallyKey(surveyKey, questionId))

	dataBytes, err := result.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var counts []surveys.ChoiceCount
	if err = json.Unmarshal(dataBytes, &counts); err != nil {
		return nil, false, err
	}
	return counts, true, nil
}

func StoreTally(ctx context.Context, surveyKey, questionId string, counts []surveys.ChoiceCount) error {
	if redisClient == nil {
		return nil
	}

	dataBytes, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, tallyKey(surveyKey, questionId), dataBytes, tallyTTL()).Err()
}
