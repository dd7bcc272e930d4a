package notify

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/planejaedu/identity/pkg/log"
)

// TaskTypeSend asynq task type carrying a Message.
const TaskTypeSend = "notify:send"

// Enqueuer is the part of the task queue the async sender needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any) error
}

// AsyncSender hands messages to the task queue; a worker delivers them
// through the wrapped sender with retries.
type AsyncSender struct {
	queue Enqueuer
	next  Sender
}

func NewAsyncSender(queue Enqueuer, next Sender) *AsyncSender {
	return &AsyncSender{queue: queue, next: next}
}

func (s *AsyncSender) Send(ctx context.Context, msg *Message) error {
	return s.queue.Enqueue(ctx, TaskTypeSend, msg)
}

// HandleTask is the queue worker side of Send.
func (s *AsyncSender) HandleTask(ctx context.Context, payload []byte) error {
	msg := new(Message)
	if err := sonic.Unmarshal(payload, msg); err != nil {
		return fmt.Errorf("unmarshal notify task: %w", err)
	}
	if err := s.next.Send(ctx, msg); err != nil {
		log.Warnw("notification delivery failed", "kind", msg.Kind, "error", err)
		return err
	}
	return nil
}
