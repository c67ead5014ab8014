package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

const notificationQueue = "notification_queue"

func (h *Handler) publishNotification(message domain.NotificationMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notifyChannel.PublishWithContext(
		ctx,
		"",
		notificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// notify 尽力投递通知
// 通知失败不能影响已经提交的业务操作，所以只记录日志不向客户端报错
func (h *Handler) notify(message domain.NotificationMessage) {
	if err := h.publishNotification(message); err != nil {
		slog.Error("通知投递失败", "type", message.Type, "to", message.To, "error", err)
	}
}
