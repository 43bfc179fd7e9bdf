package queue

import (
	"fmt"
	"strings"
)

// DispatchMessage is the broker payload for a webhook dispatch. A full
// transition carries the batch id; a test send carries the target webhook
// config id instead.
type DispatchMessage struct {
	BatchID         string  `json:"batchId,omitempty"`
	WebhookConfigID *string `json:"webhookConfigId,omitempty"`
	CorrelationID   string  `json:"correlationId,omitempty"`
	IsTest          bool    `json:"isTest,omitempty"`
}

func (m DispatchMessage) Validate() error {
	if m.IsTest {
		if m.WebhookConfigID == nil || strings.TrimSpace(*m.WebhookConfigID) == "" {
			return fmt.Errorf("webhookConfigId is required for test dispatch")
		}
		return nil
	}
	if strings.TrimSpace(m.BatchID) == "" {
		return fmt.Errorf("batchId is required")
	}
	return nil
}
