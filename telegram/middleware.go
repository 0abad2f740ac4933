package telegram

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v3"

	"github.com/evai-live/evai-bot/db"
)

// upsertSenderMiddleware makes sure the sender exists as a User and keeps the
// display fields fresh. Bots and senderless updates are dropped here so the
// handlers never see them.
func upsertSenderMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {
		sender := ctx.Sender()
		if sender == nil || sender.IsBot {
			return nil
		}

		user, err := db.UpsertUser(db.User{
			ID:        sender.ID,
			FirstName: sender.FirstName,
			LastName:  sender.LastName,
			Username:  sender.Username,
		})
		if err != nil {
			log.Error().Err(err).Int64("sender", sender.ID).Msg("failed to upsert user")
			return err
		}

		ctx.Set("user", *user)
		return next(ctx)
	}
}

func getUserFromContext(ctx telebot.Context) *db.User {

	uInt := ctx.Get("user")

	if uInt == nil {
		return nil
	}

	u, ok := uInt.(db.User)

	if !ok {
		return nil
	}

	return &u
}
