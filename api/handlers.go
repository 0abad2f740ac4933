package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/evai-live/evai-bot/db"
)

func handleListUsers(ctx *gin.Context) {
	users, err := db.GetAllUsers()
	if err != nil {
		handleInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, lo.Map(users, func(u db.User, _ int) UserRepr {
		return UserToUserRepr(u)
	}))
}

func parseUserIdParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		handleUserError(ctx, err)
		return 0, false
	}
	return id, true
}

func handleGetUser(ctx *gin.Context) {
	id, ok := parseUserIdParam(ctx)
	if !ok {
		return
	}

	user, err := db.GetUserById(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleNotFound(ctx, "user not found")
		} else {
			handleInternalError(ctx, err)
		}
		return
	}

	runs, err := db.GetRunsForUser(id)
	if err != nil {
		handleInternalError(ctx, err)
		return
	}

	runReprs := make([]RunRepr, len(runs))
	for i, run := range runs {
		answers, err := db.GetAnswersForRun(run.ID)
		if err != nil {
			handleInternalError(ctx, err)
			return
		}
		runReprs[i] = RunRepr{
			ID:           run.ID,
			SurveyKey:    run.SurveyKey,
			CurrentIndex: run.CurrentIndex,
			CreatedAt:    run.CreatedAt,
			CompletedAt:  run.CompletedAt,
			Answers: lo.Map(answers, func(a db.SurveyAnswer, _ int) AnswerRepr {
				return AnswerToAnswerRepr(a)
			}),
		}
	}

	ctx.JSON(http.StatusOK, UserDetailResponse{
		User: UserToUserRepr(*user),
		Runs: runReprs,
	})
}

func handleToggleRegistered(ctx *gin.Context) {
	id, ok := parseUserIdParam(ctx)
	if !ok {
		return
	}

	registered, err := db.ToggleUserRegistered(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleNotFound(ctx, "user not found")
		} else {
			handleInternalError(ctx, err)
		}
		return
	}

	log.Info().Int64("user", id).Bool("registered", registered).Msg("API: registered flag toggled")
	ctx.JSON(http.StatusOK, gin.H{"registered": registered})
}

func handleDeleteUser(ctx *gin.Context) {
	id, ok := parseUserIdParam(ctx)
	if !ok {
		return
	}

	err := db.DeleteUserCascade(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleNotFound(ctx, "user not found")
		} else {
			handleInternalError(ctx, err)
		}
		return
	}

	log.Info().Int64("user", id).Msg("API: user deleted with all survey data")
	ctx.Status(http.StatusNoContent)
}
