package internal

import "time"

type ComposeRequest struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	TopicKind string    `json:"topic_kind"`
	Timestamp time.Time `json:"timestamp"`
}
