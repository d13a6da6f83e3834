package domain

import "context"

// BadgePayload is one badge sent to the LAN printer.
// swagger:model BadgePayload
type BadgePayload struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position"`
	QR       string `json:"qr"`
}

// BadgePrinter delivers badge payloads to a printer on the local network.
// Delivery is best-effort: there is no acknowledgement, retry, or delivery
// confirmation, and implementations report success unconditionally.
type BadgePrinter interface {
	Print(ctx context.Context, ip string, port int, badges []BadgePayload) error
}

// BadgeService builds badge payloads from enrollments and hands them to the
// printer.
type BadgeService interface {
	PrintBadges(ctx context.Context, actorID, eventID string, enrollmentIDs []string, ip string, port int) (int, error)
}
