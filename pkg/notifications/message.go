// Package notifications defines the message envelope delivered through the
// configured workspace notification channels.
package notifications

import "time"

// Message is a single notification to deliver.
type Message struct {
	// Subject is the short headline.
	Subject string `json:"subject"`

	// Body is the resolved message body (markdown).
	Body string `json:"body"`

	// Timestamp records when the message was produced.
	Timestamp time.Time `json:"timestamp"`
}

// TestMessage is the canned message sent when a user validates a newly
// entered webhook.
func TestMessage() Message {
	return Message{
		Subject:   "Atrium test notification",
		Body:      "Your workspace notifications are configured correctly.",
		Timestamp: time.Now().UTC(),
	}
}
