package mailer

import (
	"fmt"
	"strings"
	"time"
)

const (
	DueReminderSubject = "VisaForge – items due soon"
	DefaultContactTo   = "contact@popimmigration.com"
)

var topicInboxes = map[string]string{
	"partnerships": "partnerships@popimmigration.com",
	"press":        "press@popimmigration.com",
	"support":      "support@popimmigration.com",
	"general":      DefaultContactTo,
}

type ReminderItem struct {
	Title   string
	DueDate *time.Time
}

func DueReminder(from, to, clientURL string, items []ReminderItem) Message {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		line := "• " + it.Title
		if it.DueDate != nil {
			line += fmt.Sprintf(" (due %s)", it.DueDate.UTC().Format("2006-01-02"))
		}
		lines = append(lines, line)
	}

	text := fmt.Sprintf(
		"Hi from VisaForge - upcoming items due:\n\n%s\n\nOpen your dashboard: %s/dashboard\n\nYou’re close. Don’t lose your momentum!",
		strings.Join(lines, "\n"), strings.TrimRight(clientURL, "/"),
	)

	return Message{From: from, To: to, Subject: DueReminderSubject, Text: text}
}

type ContactForm struct {
	Name    string
	Email   string
	Topic   string
	Message string
}

// ContactInbox routes a topic to its team inbox, case-insensitively.
func ContactInbox(topic string) string {
	if inbox, ok := topicInboxes[strings.ToLower(strings.TrimSpace(topic))]; ok {
		return inbox
	}
	return DefaultContactTo
}

func Contact(from string, form ContactForm) Message {
	topic := orDefault(form.Topic, "General")
	name := orDefault(form.Name, "Anonymous")

	text := strings.Join([]string{
		"Name: " + orDefault(form.Name, "(not provided)"),
		"Email: " + form.Email,
		"Topic: " + topic,
		"",
		"Message:",
		form.Message,
	}, "\n")

	return Message{
		From:    from,
		To:      ContactInbox(form.Topic),
		ReplyTo: form.Email,
		Subject: fmt.Sprintf("[Pop Contact] %s - %s", topic, name),
		Text:    text,
	}
}

type Receipt struct {
	Tier         string
	VisaType     string
	AmountCents  int64
	Currency     string
	StorageUntil *time.Time
	Credits      int
}

func PurchaseReceipt(from, to, clientURL string, r Receipt) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your purchase!\n\n")
	fmt.Fprintf(&b, "Plan: %s\n", r.Tier)
	if r.VisaType != "" {
		fmt.Fprintf(&b, "Case: %s\n", r.VisaType)
	}
	if r.AmountCents > 0 {
		fmt.Fprintf(&b, "Amount: %.2f %s\n", float64(r.AmountCents)/100, strings.ToUpper(r.Currency))
	}
	fmt.Fprintf(&b, "Mock interview credits: %d\n", r.Credits)
	if r.StorageUntil != nil {
		fmt.Fprintf(&b, "Documents stored until: %s\n", r.StorageUntil.UTC().Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\nOpen your dashboard: %s/dashboard\n", strings.TrimRight(clientURL, "/"))

	return Message{
		From:    from,
		To:      to,
		Subject: "VisaForge – your " + r.Tier + " plan is active",
		Text:    b.String(),
	}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
