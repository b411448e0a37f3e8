package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
)

// TelegramRejecter отправляет оператору сообщение о каждой отбракованной
// бутылке. Используется на линиях без SCADA-интеграции.
type TelegramRejecter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramRejecter создаёт обработчик; токен проверяется запросом getMe.
func NewTelegramRejecter(token string, chatID int64) (*TelegramRejecter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramRejecter{bot: bot, chatID: chatID}, nil
}

// Reject отправляет сводку по дефектам в чат оператора.
func (r *TelegramRejecter) Reject(result *entity.InspectionResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Брак: инспекция %s, дефектов %d\n", result.InspectionID, result.DefectCount())
	for i, d := range result.Defects {
		fmt.Fprintf(&b, "%d. %s в (%d, %d), площадь %.0f, уверенность %.2f\n",
			i+1, string(d.Type), d.Position[0], d.Position[1], d.Size, d.Confidence)
	}

	msg := tgbotapi.NewMessage(r.chatID, b.String())
	if _, err := r.bot.Send(msg); err != nil {
		return fmt.Errorf("send rejection notification: %w", err)
	}
	return nil
}

var _ port.RejectionHandler = (*TelegramRejecter)(nil)
