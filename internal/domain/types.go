package domain

// Status represents lifecycle states for builder documents.
type Status string

const (
	// StatusDraft indicates content still under preparation.
	StatusDraft Status = "draft"
	// StatusPublished identifies content available to consumers.
	StatusPublished Status = "published"
	// StatusArchived marks content retained for history but not publicly visible.
	StatusArchived Status = "archived"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
