package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// botLogger routes the library's internal messages (poll retries, debug dumps) to zerolog.
type botLogger struct{ l zerolog.Logger }

func (b botLogger) Println(v ...interface{}) {
	b.l.Warn().Msg(fmt.Sprint(v...))
}

func (b botLogger) Printf(format string, v ...interface{}) {
	b.l.Warn().Msgf(format, v...)
}

// UseLogger installs l as the Bot API library logger.
func UseLogger(l zerolog.Logger) error {
	return tgbotapi.SetLogger(botLogger{l: l.With().Str("component", "tgbotapi").Logger()})
}
