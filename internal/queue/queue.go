// internal/queue/queue.go
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// TaskQueue hands campaign runs to the out-of-process worker. Delivery
// is at-least-once; runs are idempotent, so redelivery is harmless.
type TaskQueue interface {
	PublishRunCampaign(ctx context.Context, campaignID int) error
	Close() error
}

// RunCampaignJob is the wire payload for one campaign run.
type RunCampaignJob struct {
	CampaignID int `json:"campaign_id"`
}

// AMQPQueue publishes run jobs to a durable RabbitMQ queue.
type AMQPQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// DialAMQP connects to the broker and declares the durable queue.
func DialAMQP(url, queueName string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	return &AMQPQueue{conn: conn, ch: ch, queue: queueName}, nil
}

func (q *AMQPQueue) PublishRunCampaign(ctx context.Context, campaignID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(RunCampaignJob{CampaignID: campaignID})
	if err != nil {
		return err
	}
	err = q.ch.Publish("", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish run job: %w", err)
	}
	return nil
}

// Consume delivers run jobs to handler with manual acks. Malformed
// payloads are acked and dropped; handler errors are logged by the
// caller and the message is acked anyway, since a failed run already
// parked its campaign in paused and re-triggering is the retry path.
func (q *AMQPQueue) Consume(handler func(job RunCampaignJob) error) error {
	msgs, err := q.ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	for d := range msgs {
		var job RunCampaignJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			d.Ack(false)
			continue
		}
		_ = handler(job)
		d.Ack(false)
	}
	return nil
}

func (q *AMQPQueue) Close() error {
	if q.ch != nil {
		q.ch.Close()
	}
	return q.conn.Close()
}

var _ TaskQueue = (*AMQPQueue)(nil)
