package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evai-live/evai-bot/vtuber"
)

// The admin surface forwards avatar control calls as-is; no database session
// is ever held while these round-trips run.

var vtuberClient *vtuber.Client // set in InitApi, after the environment is loaded

func handleVtuberSessions(ctx *gin.Context) {
	sessions, err := vtuberClient.ListSessions(ctx.Request.Context())
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func handleVtuberSpeak(ctx *gin.Context) {
	var req VtuberSpeakRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleUserError(ctx, err)
		return
	}

	resp, err := vtuberClient.Speak(ctx.Request.Context(), vtuber.SpeakRequest{
		Text:       req.Text,
		ClientUID:  req.ClientUID,
		ApplyToAll: req.ApplyToAll,
	})
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func handleVtuberSystem(ctx *gin.Context) {
	var req VtuberSystemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleUserError(ctx, err)
		return
	}

	resp, err := vtuberClient.SystemInstruction(ctx.Request.Context(), vtuber.SystemRequest{
		Text:       req.Text,
		Mode:       req.Mode,
		ClientUID:  req.ClientUID,
		ApplyToAll: req.ApplyToAll,
	})
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func handleVtuberRespond(ctx *gin.Context) {
	var req VtuberRespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		handleUserError(ctx, err)
		return
	}

	resp, err := vtuberClient.Respond(ctx.Request.Context(), vtuber.RespondRequest{
		Text:       req.Text,
		ClientUID:  req.ClientUID,
		ApplyToAll: req.ApplyToAll,
	})
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
