package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v3"
	"gorm.io/gorm"

	"github.com/evai-live/evai-bot/common"
	"github.com/evai-live/evai-bot/db"
	"github.com/evai-live/evai-bot/surveys"
)

const surveyUnavailableMessage = "This survey is not available right now."

func cmdStart(ctx telebot.Context) error {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Fill out the registration", common.CallbackIDSurveyStart, surveys.OnboardingKey()),
	))

	return ctx.Send("Hi! Welcome to the EVAI pre-launch party. Tap below to register.", markup)
}

func cmdId(ctx telebot.Context) error {

	text := fmt.Sprintf("The ID of this chat: %d\nType: %s\n\nID of sender: %d",
		ctx.Chat().ID,
		ctx.Chat().Type,
		ctx.Sender().ID,
	)

	return ctx.Reply(text, telebot.ModeDefault)
}

func cmdWhoami(ctx telebot.Context) error {
	user := getUserFromContext(ctx)
	if user == nil {
		return fmt.Errorf("could not get user")
	}

	msg := fmt.Sprintf("You are %s.", user.Greet())
	if user.Registered {
		msg += "\nYou are registered!"
	}
	return ctx.Reply(msg, telebot.ModeDefault)
}

func cmdRegister(ctx telebot.Context) error {
	return startSurveyFlow(ctx, surveys.OnboardingKey(), false)
}

func cmdSurvey(ctx telebot.Context) error {
	if len(ctx.Args()) != 1 {
		return ctx.Reply("Usage: /survey <key> (e.g. /survey registration)", telebot.ModeDefault)
	}

	return startSurveyFlow(ctx, strings.TrimSpace(ctx.Args()[0]), false)
}

func startSurveyFlow(ctx telebot.Context, surveyKey string, edit bool) error {
	user := getUserFromContext(ctx)
	if user == nil {
		return fmt.Errorf("could not get user")
	}

	run, def, err := surveys.StartRun(user.ID, surveyKey)
	if err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			return ctx.Reply("Survey not found.", telebot.ModeDefault)
		}
		if errors.Is(err, surveys.ErrInvalidDefinition) {
			log.Error().Err(err).Str("survey", surveyKey).Msg("broken survey definition")
			return ctx.Reply(surveyUnavailableMessage, telebot.ModeDefault)
		}
		return err
	}

	return presentCurrentQuestion(ctx, run, def, edit)
}

// presentCurrentQuestion renders the question the run is waiting on, or wraps
// the run up once the pointer is past the last question. Completion happens
// after the closing message is out, so a send failure leaves the run resumable.
func presentCurrentQuestion(ctx telebot.Context, run *db.SurveyRun, def *surveys.Definition, edit bool) error {
	q := surveys.CurrentQuestion(run, def)
	if q == nil {
		if err := sendOrEdit(ctx, edit, "All done, thank you!", nil); err != nil {
			return err
		}
		return surveys.CompleteRun(run.ID)
	}

	if q.Kind == surveys.KindChoice {
		markup := &telebot.ReplyMarkup{}
		rows := make([]telebot.Row, len(q.Choices))
		for i, c := range q.Choices {
			payload := common.EncodeAnswerPayload(run.ID, q.ID, c.Value)
			rows[i] = markup.Row(markup.Data(c.Label, common.CallbackIDSurveyAnswer, payload))
		}
		markup.Inline(rows...)

		return sendOrEdit(ctx, edit, q.Prompt, markup)
	}

	return sendOrEdit(ctx, edit, q.Prompt+"\n(type your answer and send it)", nil)
}

func sendOrEdit(ctx telebot.Context, edit bool, text string, markup *telebot.ReplyMarkup) error {
	if edit {
		if markup != nil {
			return ctx.Edit(text, markup)
		}
		return ctx.Edit(text)
	}
	if markup != nil {
		return ctx.Send(text, markup)
	}
	return ctx.Send(text, telebot.ModeDefault)
}

func handleCallback(ctx telebot.Context) error {
	q := ctx.Callback()

	parts := strings.SplitN(strings.TrimSpace(q.Data), "|", 2)

	if len(parts) != 2 { // first is the unique part
		return fmt.Errorf("invalid or no data passed")
	}

	unique := strings.TrimSpace(parts[0])
	payload := strings.TrimSpace(parts[1])

	log.Debug().Int64("sender", ctx.Sender().ID).Str("unique", unique).Str("payload", payload).Msg("new callback")

	switch unique {
	case common.CallbackIDSurveyStart:
		return handleSurveyStartCallback(ctx, payload)
	case common.CallbackIDSurveyAnswer:
		return handleAnswerCallback(ctx, payload)
	case common.CallbackIDLivePoll:
		return handleLivePollCallback(ctx, payload)
	}

	return nil
}

func handleSurveyStartCallback(ctx telebot.Context, payload string) error {
	if err := startSurveyFlow(ctx, payload, true); err != nil {
		return err
	}
	return ctx.Respond()
}

func handleAnswerCallback(ctx telebot.Context, payload string) error {
	runId, questionId, value, err := common.DecodeAnswerPayload(payload)
	if err != nil {
		return ctx.Respond(&telebot.CallbackResponse{Text: "Malformed button data.", ShowAlert: true})
	}

	run, err := surveys.RecordAnswer(runId, questionId, surveys.Answer{Choice: &value})
	if err != nil {
		if errors.Is(err, surveys.ErrQuestionMismatch) {
			// stale tap on an already answered question
			return ctx.Respond(&telebot.CallbackResponse{Text: "This question was already answered."})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Respond(&telebot.CallbackResponse{Text: surveyUnavailableMessage, ShowAlert: true})
		}
		return err
	}

	def, err := surveys.Load(run.SurveyKey)
	if err != nil {
		return err
	}

	if err = presentCurrentQuestion(ctx, run, def, true); err != nil {
		return err
	}
	return ctx.Respond()
}

func handleLivePollCallback(ctx telebot.Context, payload string) error {
	user := getUserFromContext(ctx)
	if user == nil {
		return fmt.Errorf("could not get user")
	}

	surveyKey, questionId, value, err := common.DecodeLivePollPayload(payload)
	if err != nil {
		return ctx.Respond(&telebot.CallbackResponse{Text: "Malformed button data.", ShowAlert: true})
	}

	err = surveys.CastVote(user.ID, surveyKey, questionId, value)
	if err != nil {
		if errors.Is(err, surveys.ErrUnknownChoice) || errors.Is(err, surveys.ErrUnknownQuestion) {
			return ctx.Respond(&telebot.CallbackResponse{Text: "That option is not available."})
		}
		return err
	}

	return ctx.Respond(&telebot.CallbackResponse{Text: "Vote counted!"})
}

// onText feeds free-text messages into the sender's open run, if its current
// question expects text. Anything else is ignored silently, people do chat
// with bots.
func onText(ctx telebot.Context) error {
	user := getUserFromContext(ctx)
	if user == nil {
		return nil
	}

	text := strings.TrimSpace(ctx.Text())
	if text == "" {
		return nil
	}

	run, err := db.FindOpenRunForUser(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	def, err := surveys.Load(run.SurveyKey)
	if err != nil {
		return err
	}

	q := surveys.CurrentQuestion(run, def)
	if q == nil || q.Kind != surveys.KindText {
		return nil
	}

	run, err = surveys.RecordAnswer(run.ID, q.ID, surveys.Answer{Text: &text})
	if err != nil {
		if errors.Is(err, surveys.ErrQuestionMismatch) {
			return nil // answered from elsewhere in the meantime
		}
		return err
	}

	return presentCurrentQuestion(ctx, run, def, false)
}

func setupHandlers(bot *telebot.Bot) {
	bot.Use(upsertSenderMiddleware)

	bot.Handle("/start", cmdStart)
	bot.Handle("/id", cmdId)
	bot.Handle("/whoami", cmdWhoami)
	bot.Handle("/register", cmdRegister)
	bot.Handle("/survey", cmdSurvey)

	bot.Handle(telebot.OnText, onText)
	bot.Handle(telebot.OnCallback, handleCallback)
}
