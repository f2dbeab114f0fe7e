package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

// Label is the metrics label for a notification type
func (t NotificationType) Label() string {
	switch t {
	case NotificationTypeBookingConfirmed:
		return "booking_confirmation"
	case NotificationTypeBookingCancelled:
		return "cancellation_confirmation"
	default:
		return "unknown"
	}
}

// Priority orders cancellations (they carry refund details) ahead of confirmations
func (t NotificationType) Priority() NotificationPriority {
	if t == NotificationTypeBookingCancelled {
		return NotificationPriorityHigh
	}
	return NotificationPriorityMedium
}

type NotificationPriority string

const (
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Recipient is the account holder an email is addressed to
type Recipient struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

// EmailNotification is the unit queued on Kafka or handed to the direct publisher.
type EmailNotification struct {
	ID        uuid.UUID            `json:"id"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	BookingID uuid.UUID            `json:"booking_id"`

	To           Recipient              `json:"to"`
	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	Status    NotificationStatus `json:"status"`
	Attempts  int                `json:"attempts"`
	LastError string             `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}

// NewEmailNotification creates a pending notification about one booking.
func NewEmailNotification(kind NotificationType, bookingID uuid.UUID, to Recipient, subject string, data map[string]interface{}) *EmailNotification {
	if data == nil {
		data = map[string]interface{}{}
	}
	now := time.Now()
	return &EmailNotification{
		ID:           uuid.New(),
		Type:         kind,
		Priority:     kind.Priority(),
		BookingID:    bookingID,
		To:           to,
		Subject:      subject,
		TemplateData: data,
		Status:       NotificationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PartitionKey keeps all mail for one booking on the same partition
func (n *EmailNotification) PartitionKey() string {
	return n.BookingID.String()
}

func (n *EmailNotification) Encode() ([]byte, error) {
	return json.Marshal(n)
}

func (n *EmailNotification) setStatus(s NotificationStatus) {
	n.Status = s
	n.UpdatedAt = time.Now()
}

func (n *EmailNotification) MarkSent() {
	n.setStatus(NotificationStatusSent)
	sentAt := n.UpdatedAt
	n.SentAt = &sentAt
}

func (n *EmailNotification) MarkFailed(err error) {
	n.setStatus(NotificationStatusFailed)
	n.LastError = err.Error()
}
