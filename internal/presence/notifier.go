package presence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"quiz-relay-backend/internal/queue"
)

// StatusUpdatePath is appended to the backend base URL for presence calls.
const StatusUpdatePath = "/api/update-status"

type statusUpdate struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// Notifier pushes best-effort presence transitions to the application
// backend. Calls never block the connection lifecycle: the HTTP POST runs
// on the shared worker queue, a full queue sheds the update, and failures
// are logged and dropped with no retry.
type Notifier struct {
	backendURL string
	client     *http.Client
	queue      *queue.RequestQueueManager
}

func NewNotifier(backendURL string, q *queue.RequestQueueManager) *Notifier {
	return &Notifier{
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     &http.Client{Timeout: 5 * time.Second},
		queue:      q,
	}
}

func (n *Notifier) Notify(userID, status string) {
	job := queue.Job{
		Fn: func() error {
			if err := n.post(userID, status); err != nil {
				log.Printf("Presence update failed for user %s (%s): %v", userID, status, err)
				incFailures()
			}
			return nil
		},
	}

	if !n.queue.TryEnqueueJob(job) {
		log.Printf("Presence queue full, dropping update for user %s (%s)", userID, status)
		incFailures()
	}
}

func (n *Notifier) post(userID, status string) error {
	body, err := json.Marshal(statusUpdate{UserID: userID, Status: status})
	if err != nil {
		return fmt.Errorf("presence: marshal update: %w", err)
	}

	resp, err := n.client.Post(n.backendURL+StatusUpdatePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("presence: post update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("presence: backend responded %d", resp.StatusCode)
	}
	return nil
}
