package domain

import "time"

// RequesterTier is the support tier of the ticket requester.
type RequesterTier string

// Requester tiers in ascending order of entitlement.
const (
	TierStandard   RequesterTier = "standard"
	TierPremium    RequesterTier = "premium"
	TierEnterprise RequesterTier = "enterprise"
)

// Elevated reports whether the tier carries priority entitlements.
func (t RequesterTier) Elevated() bool {
	return t == TierPremium || t == TierEnterprise
}

// Priority is the urgency level assigned to a ticket.
type Priority string

// Ticket priorities in ascending order of urgency.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the ordinal position of the priority, with low = 0.
// Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return 1
	}
}

// AtMost reports whether p is no more urgent than limit.
func (p Priority) AtMost(limit Priority) bool {
	return p.Rank() <= limit.Rank()
}

// Ticket is an incoming support ticket. It is owned by an external
// ticket store and passed to the pipeline by value; the pipeline
// never mutates it.
type Ticket struct {
	// ID is the external ticket identifier.
	ID string

	// Subject is the one-line summary supplied by the requester.
	Subject string

	// Description is the free-form body of the ticket.
	Description string

	// Tags are free-form labels attached to the ticket.
	Tags []string

	// AttachmentCount is the number of uploaded attachments.
	// Only presence matters to the pipeline, never the contents.
	AttachmentCount int

	// RequesterTier is the support tier of the requester.
	RequesterTier RequesterTier

	// RequesterName is used to personalise drafted replies.
	RequesterName string

	// Category is an optional pre-existing category assignment.
	Category string

	// Priority is an optional pre-existing priority assignment.
	Priority Priority

	// CreatedAt is when the ticket was submitted.
	CreatedAt time.Time
}

// Text returns the combined searchable text of the ticket:
// subject, description, and tags.
func (t Ticket) Text() string {
	text := t.Subject + " " + t.Description
	for _, tag := range t.Tags {
		text += " " + tag
	}
	return text
}

// HasAttachments reports whether any attachments are present.
func (t Ticket) HasAttachments() bool {
	return t.AttachmentCount > 0
}
