package provider

import "context"

// Sender is the outbound webhook delivery port.
type Sender interface {
	Send(ctx context.Context, endpoint string, payload Payload) (*Response, error)
}

// Response stores delivery call metadata for audit and persistence.
type Response struct {
	StatusCode int
	Body       string
	RequestID  string
}

// BatchData is the batch summary embedded in an outbound payload.
type BatchData struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Capacity    string `json:"capacity"`
	Department  string `json:"department"`
	Coordinator string `json:"coordinator"`
}

// Payload is the JSON body posted to a webhook endpoint.
type Payload struct {
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp"`
	BatchData BatchData `json:"batchData"`
	IsTest    bool      `json:"isTest,omitempty"`
}
