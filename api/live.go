package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/evai-live/evai-bot/memdb"
	"github.com/evai-live/evai-bot/surveys"
)

// handleTally serves the viewer overlay: counts for whichever question is
// currently live on the survey. Snapshots are cached in redis for a couple of
// seconds, the overlay re-polls far more often than the chart needs to move.
func handleTally(ctx *gin.Context) {
	surveyKey := ctx.Param("key")

	def, err := surveys.Load(surveyKey)
	if err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			handleNotFound(ctx, "survey not found")
		} else {
			handleInternalError(ctx, err)
		}
		return
	}

	q, err := surveys.ResolveActive(surveyKey, def)
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	if q == nil {
		handleNotFound(ctx, "no live poll for this survey")
		return
	}

	counts, cached, err := memdb.GetCachedTally(ctx, surveyKey, q.ID)
	if err != nil {
		log.Warn().Err(err).Str("survey", surveyKey).Msg("API: tally cache read failed")
	}
	if !cached {
		counts, err = surveys.Tally(surveyKey, q.ID, def)
		if err != nil {
			handleInternalError(ctx, err)
			return
		}
		if err = memdb.StoreTally(ctx, surveyKey, q.ID, counts); err != nil {
			log.Warn().Err(err).Str("survey", surveyKey).Msg("API: tally cache write failed")
		}
	}

	ctx.JSON(http.StatusOK, TallyResponse{
		SurveyKey:  surveyKey,
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Counts:     counts,
	})
}

func handleActivate(ctx *gin.Context) {
	surveyKey := ctx.Param("key")

	var req ActivateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleUserError(ctx, err)
		return
	}

	err := surveys.Activate(surveyKey, req.QuestionID)
	if err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			handleNotFound(ctx, "survey not found")
		} else if errors.Is(err, surveys.ErrUnknownQuestion) {
			handleNotFound(ctx, "not a choice question of this survey")
		} else {
			handleInternalError(ctx, err)
		}
		return
	}

	log.Info().Str("survey", surveyKey).Str("question", req.QuestionID).Msg("API: live poll activated")
	ctx.JSON(http.StatusOK, ActivationResponse{
		SurveyKey:  surveyKey,
		QuestionID: req.QuestionID,
	})
}

func handleDeactivate(ctx *gin.Context) {
	surveyKey := ctx.Param("key")

	if err := surveys.Deactivate(surveyKey); err != nil {
		handleInternalError(ctx, err)
		return
	}

	log.Info().Str("survey", surveyKey).Msg("API: live poll deactivated")
	ctx.Status(http.StatusNoContent)
}

func handleDeactivateAll(ctx *gin.Context) {
	if err := surveys.DeactivateAll(); err != nil {
		handleInternalError(ctx, err)
		return
	}

	log.Info().Msg("API: all live polls deactivated")
	ctx.Status(http.StatusNoContent)
}
