package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/logger"
)

// DispatchHandler delivers notification payloads to the external webhook
// collaborator. Delivery is best effort: a missing webhook URL drops the
// payload with a log line instead of retrying forever.
type DispatchHandler struct {
	webhookURL string
	httpClient *http.Client
}

func NewDispatchHandler(webhookURL string, timeout time.Duration) *DispatchHandler {
	return &DispatchHandler{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *DispatchHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal fail due to ", err)
		return err
	}

	if h.webhookURL == "" {
		log.Warn().
			Str("event", payload.Event).
			Str("booking_id", payload.BookingID.String()).
			Msg("No webhook URL configured, dropping notification")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error("Webhook delivery failed due to ", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
		logger.Error("Webhook delivery rejected due to ", err)
		return err
	}

	log.Info().
		Str("event", payload.Event).
		Str("booking_id", payload.BookingID.String()).
		Msg("Notification delivered")

	return nil
}
