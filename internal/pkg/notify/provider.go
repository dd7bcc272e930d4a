package notify

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/internal/pkg/queue"
)

// ProviderSet 提供通知相关的依赖
var ProviderSet = wire.NewSet(ProvideSender)

// ProvideSender picks the delivery path from configuration. With a task
// queue and Async set, the worker handler is registered on the queue.
func ProvideSender(conf Conf, q *queue.TaskQueue) (Sender, error) {
	if !conf.Enable {
		return LogSender{}, nil
	}
	email := NewEmailSender(conf.SMTP)
	if err := email.Validate(); err != nil {
		return nil, err
	}
	if conf.Async && q != nil {
		async := NewAsyncSender(q, email)
		q.RegisterHandler(TaskTypeSend, async)
		return async, nil
	}
	return email, nil
}
