// Package telegram relays deposit proof screenshots to the admin channel.
// The escrow engine treats delivery as a hard precondition: if the relay
// fails, the deposit request fails with it.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type Relay struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewRelay(token string, chatID int64) (*Relay, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram bot init")
	}
	return &Relay{bot: bot, chatID: chatID}, nil
}

// SendDepositProof posts the proof image with a caption describing the
// request. The bot API client has no context support; ctx is honored
// before the call so a cancelled request does not hit the network.
func (r *Relay) SendDepositProof(ctx context.Context, photo []byte, filename, caption string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "telegram relay")
	}
	msg := tgbotapi.NewPhoto(r.chatID, tgbotapi.FileBytes{Name: filename, Bytes: photo})
	msg.Caption = caption
	if _, err := r.bot.Send(msg); err != nil {
		return errors.Wrap(err, "telegram send photo")
	}
	return nil
}
