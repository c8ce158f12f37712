// Package notify encaminha notificações criadas na plataforma para canais externos.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agiseventos/agenda/internal/domain"
)

// Forwarder recebe cada notificação persistida.
type Forwarder interface {
	Forward(ctx context.Context, recipient domain.User, n domain.Notification) error
}

// Nop descarta as notificações.
type Nop struct{}

func (Nop) Forward(context.Context, domain.User, domain.Notification) error { return nil }

// SlackForwarder publica em um incoming webhook do Slack.
type SlackForwarder struct {
	webhookURL string
	client     *http.Client
}

// NewSlackForwarder devolve Nop quando a URL não está configurada.
func NewSlackForwarder(webhookURL string) Forwarder {
	if webhookURL == "" {
		return Nop{}
	}
	return &SlackForwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SlackForwarder) Forward(ctx context.Context, recipient domain.User, n domain.Notification) error {
	body, err := json.Marshal(map[string]any{"text": formatSlackMessage(recipient, n)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("slack notification failed")
	}
	return nil
}

func formatSlackMessage(recipient domain.User, n domain.Notification) string {
	emoji := ":information_source:"
	switch n.Type {
	case domain.NotificationWarning:
		emoji = ":warning:"
	case domain.NotificationError:
		emoji = ":rotating_light:"
	case domain.NotificationSuccess:
		emoji = ":white_check_mark:"
	}
	who := recipient.Name
	if recipient.Company != nil && *recipient.Company != "" {
		who = fmt.Sprintf("%s (%s)", recipient.Name, *recipient.Company)
	}
	return fmt.Sprintf("%s *%s* → %s\n%s", emoji, n.Title, who, n.Message)
}
