package notify

import (
	"context"

	"github.com/planejaedu/identity/pkg/log"
)

// LogSender 仅记录日志，不实际投递（本地开发或关闭通知时使用）
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg *Message) error {
	log.WithContext(ctx).Infow("notification suppressed", "kind", msg.Kind, "to", msg.To)
	return nil
}
