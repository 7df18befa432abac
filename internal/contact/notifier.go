package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

const notifyTimeout = 5 * time.Second

// WebhookNotifier posts new contact messages to a webhook (slack / discord style).
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewWebhookNotifier(webhookURL string, httpClient *http.Client) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

type webhookPayload struct {
	Text    string   `json:"text"`
	Content string   `json:"content"`
	Message *Message `json:"message"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg *Message) (err error) {
	if n.webhookURL == "" {
		log.Tracef("contact webhook not set, skipping notify for %s", msg.ID)
		return nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "contactNotifier.notify")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	text := fmt.Sprintf("new contact message from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	body, err := json.Marshal(webhookPayload{Text: text, Content: text, Message: msg})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
