// Package relay consumes the change-notice trigger queue and collapses each
// notice into the refresh-status singleton. A failed transition marks the
// notice error and is never retried; pollers re-fetch full state rather than
// applying diffs, so a missed signal is recovered by the next one.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/config"
	"github.com/Monticola-data/backend-kalendar/internal/consumer"
	"github.com/Monticola-data/backend-kalendar/internal/models"
	"github.com/Monticola-data/backend-kalendar/internal/rabbitmq"
)

// Store is the slice of the event store the relay needs.
type Store interface {
	LoadNotice(ctx context.Context, id uuid.UUID) (*models.ChangeNotice, error)
	PublishStatus(ctx context.Context, rowID string) error
	MarkNoticeDone(ctx context.Context, id uuid.UUID) error
	MarkNoticeError(ctx context.Context, id uuid.UUID, detail string) error
}

// Relay consumes trigger messages and maintains the refresh-status singleton
type Relay struct {
	cfg         *config.RelayConfig
	conn        *rabbitmq.Connection
	store       Store
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	consumerTag string
	started     bool
}

// NewRelay creates a new relay instance with dependencies
func NewRelay(cfg *config.RelayConfig, conn *rabbitmq.Connection, store Store, logger *zap.Logger) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		cfg:         cfg,
		conn:        conn,
		store:       store,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		consumerTag: fmt.Sprintf("status-relay-%d", time.Now().Unix()),
	}
}

// Start begins consuming trigger messages.
// Assumes the queue already exists - will fail if it doesn't.
func (r *Relay) Start() error {
	if r.cfg.Queue == "" {
		return fmt.Errorf("relay queue is required")
	}

	if err := r.conn.SetQoS(r.cfg.PrefetchCount); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := r.startConsuming(); err != nil {
		return err
	}

	r.started = true
	r.logger.Info("Status relay started and consuming messages",
		zap.String("queue", r.cfg.Queue),
		zap.String("consumer_tag", r.consumerTag),
	)
	return nil
}

func (r *Relay) startConsuming() error {
	messages, err := r.conn.ConsumeMessages(r.cfg.Queue, r.consumerTag)
	if err != nil {
		return fmt.Errorf("failed to start consuming from queue %s (queue may not exist): %w", r.cfg.Queue, err)
	}

	go r.processMessages(messages)

	return nil
}

// Stop gracefully stops the relay
func (r *Relay) Stop() error {
	r.logger.Info("Stopping status relay",
		zap.String("consumer_tag", r.consumerTag),
	)
	r.cancel()

	ch := r.conn.GetChannel()
	if ch != nil {
		if err := ch.Cancel(r.consumerTag, false); err != nil {
			r.logger.Error("Failed to cancel consumer",
				zap.String("consumer_tag", r.consumerTag),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("Status relay stopped")
	return nil
}

func (r *Relay) processMessages(messages <-chan amqp.Delivery) {
	for {
		select {
		case <-r.ctx.Done():
			r.logger.Info("Relay context cancelled, stopping message processing")
			return
		case msg, ok := <-messages:
			if !ok {
				r.logger.Warn("Message channel closed, waiting for reconnection...",
					zap.String("queue", r.cfg.Queue),
				)
				for r.started {
					select {
					case <-r.ctx.Done():
						return
					default:
					}

					time.Sleep(2 * time.Second)
					if !r.conn.IsHealthy() {
						continue
					}

					if err := r.startConsuming(); err != nil {
						r.logger.Error("Failed to restart consuming after channel close, will retry",
							zap.String("queue", r.cfg.Queue),
							zap.Error(err),
						)
						time.Sleep(5 * time.Second)
						continue
					}

					r.logger.Info("Successfully restarted consumer after channel close",
						zap.String("queue", r.cfg.Queue),
					)
					return
				}
				return
			}
			consumer.ProcessMessage(r.logger, r.cfg.Queue, msg, r)
		}
	}
}

// HandleMessage implements the consumer.MessageHandler interface. It always
// returns nil after the notice is dealt with: a failed notice is recorded as
// error in the log and the message is ACKed, never requeued. The singleton
// is left untouched on failure, so pollers simply miss that signal until the
// next one arrives.
func (r *Relay) HandleMessage(body []byte) error {
	var trigger models.TriggerMessage
	if err := json.Unmarshal(body, &trigger); err != nil {
		r.logger.Error("Failed to unmarshal trigger message, skipping",
			zap.ByteString("body", body),
			zap.Error(err),
		)
		return nil
	}

	noticeID, err := uuid.Parse(trigger.NoticeID)
	if err != nil {
		r.logger.Error("Invalid notice id in trigger message, skipping",
			zap.String("notice_id", trigger.NoticeID),
			zap.Error(err),
		)
		return nil
	}

	notice, err := r.store.LoadNotice(r.ctx, noticeID)
	if err != nil {
		r.logger.Error("Failed to load change notice, skipping",
			zap.String("notice_id", trigger.NoticeID),
			zap.Error(err),
		)
		return nil
	}

	if notice.Status != models.NoticeWaiting {
		r.logger.Info("Change notice already processed, skipping",
			zap.String("notice_id", trigger.NoticeID),
			zap.String("status", notice.Status),
		)
		return nil
	}

	if err := r.store.PublishStatus(r.ctx, notice.RowID); err != nil {
		r.logger.Error("Failed to publish refresh status",
			zap.String("notice_id", trigger.NoticeID),
			zap.String("row_id", notice.RowID),
			zap.Error(err),
		)
		if markErr := r.store.MarkNoticeError(r.ctx, noticeID, err.Error()); markErr != nil {
			r.logger.Error("Failed to mark change notice as error",
				zap.String("notice_id", trigger.NoticeID),
				zap.Error(markErr),
			)
		}
		return nil
	}

	if err := r.store.MarkNoticeDone(r.ctx, noticeID); err != nil {
		// The status is already published; the notice just stays waiting
		r.logger.Error("Failed to mark change notice as done",
			zap.String("notice_id", trigger.NoticeID),
			zap.Error(err),
		)
		return nil
	}

	r.logger.Info("Change notice relayed",
		zap.String("notice_id", trigger.NoticeID),
		zap.String("row_id", notice.RowID),
	)
	return nil
}
