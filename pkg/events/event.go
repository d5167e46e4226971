package events

import "time"

const (
	CheckoutCompleted = "CHECKOUT_COMPLETED"
	PacketGenerated   = "PACKET_GENERATED"
	RemindersSent     = "REMINDERS_SENT"
	AffidavitDrafted  = "AFFIDAVIT_DRAFTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the subject suffix, e.g. "PACKET_GENERATED".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewCheckoutCompleted(userID, caseID, tier, sessionID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: CheckoutCompleted,
		Data: map[string]interface{}{
			"user_id":    userID,
			"case_id":    caseID,
			"tier":       tier,
			"session_id": sessionID,
		},
		OccurredAt: at,
	}
}

func NewPacketGenerated(userID, caseID, path string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: PacketGenerated,
		Data: map[string]interface{}{
			"user_id": userID,
			"case_id": caseID,
			"path":    path,
		},
		OccurredAt: at,
	}
}

func NewRemindersSent(sent, failed, skipped int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: RemindersSent,
		Data: map[string]interface{}{
			"sent":    sent,
			"failed":  failed,
			"skipped": skipped,
		},
		OccurredAt: at,
	}
}

func NewAffidavitDrafted(userID, caseID, visaType string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: AffidavitDrafted,
		Data: map[string]interface{}{
			"user_id":   userID,
			"case_id":   caseID,
			"visa_type": visaType,
		},
		OccurredAt: at,
	}
}
