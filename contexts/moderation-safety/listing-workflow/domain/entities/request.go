package entities

import (
	"strings"
	"time"
)

type Section string

const (
	SectionBuyAds      Section = "buy-ads"
	SectionSellAds     Section = "sell-ads"
	SectionJobs        Section = "jobs"
	SectionDesigners   Section = "designers"
	SectionSellChannel Section = "sell-channel"
	SectionBuyChannel  Section = "buy-channel"
	SectionOther       Section = "other"
)

func ParseSection(raw string) (Section, bool) {
	section := Section(strings.ToLower(strings.TrimSpace(raw)))
	switch section {
	case SectionBuyAds, SectionSellAds, SectionJobs, SectionDesigners,
		SectionSellChannel, SectionBuyChannel, SectionOther:
		return section, true
	default:
		return "", false
	}
}

// Status is the moderation state machine: pending is the only non-terminal
// state; approved and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PublicationStatus is the owner-visible machine. It shares only the
// approval boundary with Status: completed is reachable from approved alone
// and, like rejected, never transitions further.
type PublicationStatus string

const (
	PublicationPending   PublicationStatus = "pending"
	PublicationApproved  PublicationStatus = "approved"
	PublicationCompleted PublicationStatus = "completed"
	PublicationRejected  PublicationStatus = "rejected"
)

type Request struct {
	RequestID       string
	SubmitterID     string
	Section         Section
	FormData        FormData
	Status          Status
	AdminNote       string
	PublishedItemID string
	ProcessedAt     *time.Time
	ExpiresAt       *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicationStatus projects the owner-visible state at the given instant.
// An approved listing whose publication window has lapsed renders as
// completed even before the owner closes it explicitly.
func (r Request) PublicationStatus(now time.Time) PublicationStatus {
	switch r.Status {
	case StatusRejected:
		return PublicationRejected
	case StatusApproved:
		if r.CompletedAt != nil {
			return PublicationCompleted
		}
		if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
			return PublicationCompleted
		}
		return PublicationApproved
	default:
		return PublicationPending
	}
}

// PublishedListing is the payload handed to the publish collaborator on
// approval. The form data travels verbatim; this core never inspects it.
type PublishedListing struct {
	PublishedItemID string
	RequestID       string
	SubmitterID     string
	Section         Section
	FormData        FormData
	ApprovedAt      time.Time
}
