package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// ItemReportMessage is the partner feed payload announcing a newly reported
// lost or found item.
type ItemReportMessage struct {
	TenantID string                   `json:"tenant_id"`
	Partner  string                   `json:"partner,omitempty"`
	Report   models.CreateItemRequest `json:"report"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	ItemReport *ItemReportMessage
}

// ParseItemReport parses the message value as a partner item report
func (m *IncomingMessage) ParseItemReport() error {
	var msg ItemReportMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	if msg.Report.Title == "" {
		return fmt.Errorf("item report is missing a title")
	}
	m.ItemReport = &msg
	return nil
}

// GetTenantID returns the tenant ID from the message body, falling back to
// the Kafka header
func (m *IncomingMessage) GetTenantID() string {
	if m.ItemReport != nil && m.ItemReport.TenantID != "" {
		return m.ItemReport.TenantID
	}
	return m.Headers["tenant_id"]
}
