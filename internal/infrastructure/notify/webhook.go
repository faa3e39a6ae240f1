package notify

import (
	"context"
	"sync"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// webhookPayload is the JSON body posted for each notification
type webhookPayload struct {
	Kind       shared.NotificationKind `json:"kind"`
	Message    string                  `json:"message"`
	DurationMs int64                   `json:"duration_ms"`
	CreatedAt  time.Time               `json:"created_at"`
	Shop       string                  `json:"shop,omitempty"`
}

// WebhookConfig configures a WebhookSink
type WebhookConfig struct {
	URL       string
	Shop      string
	Timeout   time.Duration
	QueueSize int
}

// WebhookSink posts notifications to an HTTP endpoint from a single
// background worker. Notifications that arrive while the queue is full, or
// after Close, are logged and dropped. Delivery failures are logged too.
type WebhookSink struct {
	client *resty.Client
	url    string
	shop   string
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	queue  chan webhookPayload
	done   chan struct{}
}

// NewWebhookSink creates a sink and starts its delivery worker
func NewWebhookSink(cfg WebhookConfig, l *zap.Logger) *WebhookSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if l == nil {
		l = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	s := &WebhookSink{
		client: client,
		url:    cfg.URL,
		shop:   cfg.Shop,
		logger: l.Named("notify.webhook"),
		queue:  make(chan webhookPayload, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Notify implements shared.Notifier. It never blocks on delivery.
func (s *WebhookSink) Notify(_ context.Context, n shared.Notification) {
	payload := webhookPayload{
		Kind:       n.Kind,
		Message:    n.Message,
		DurationMs: n.DurationMs(),
		CreatedAt:  n.CreatedAt,
		Shop:       s.shop,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warn("webhook sink closed, dropping notification", zap.String("message", n.Message))
		return
	}
	select {
	case s.queue <- payload:
	default:
		s.logger.Warn("webhook queue full, dropping notification", zap.String("message", n.Message))
	}
}

// Close stops accepting notifications and waits for the queued ones to be
// delivered. It is safe to call more than once.
func (s *WebhookSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *WebhookSink) run() {
	defer close(s.done)
	for payload := range s.queue {
		s.deliver(payload)
	}
}

func (s *WebhookSink) deliver(payload webhookPayload) {
	// Deliveries are detached from the request that raised the notification.
	resp, err := s.client.R().SetContext(context.Background()).SetBody(payload).Post(s.url)
	if err != nil {
		s.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	if resp.IsError() {
		s.logger.Warn("webhook rejected notification",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
	}
}

var _ shared.Notifier = (*WebhookSink)(nil)
