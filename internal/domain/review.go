package domain

// Mode selects which slice of a collection a review session walks.
type Mode string

const (
	// ModeAI reviews items carrying the designated primary tag.
	ModeAI Mode = "ai"
	// ModeOther reviews items lacking the primary tag.
	ModeOther Mode = "other"
	// ModeAll reviews everything unreviewed.
	ModeAll Mode = "all"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAI, ModeOther, ModeAll:
		return Mode(s), true
	}
	return "", false
}

// ReviewState is the persisted progress of review sessions. ReviewedIDs
// is a single global set shared across all modes: reviewing an item in
// one mode retires it from every mode's future eligible list.
type ReviewState struct {
	Mode         Mode     `json:"mode"`
	ReviewedIDs  []string `json:"reviewed_ids"`
	SessionStart string   `json:"session_start,omitempty"`
	LastShownID  string   `json:"last_shown_id,omitempty"`
}

// ReviewedSet returns ReviewedIDs as a set.
func (s *ReviewState) ReviewedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.ReviewedIDs))
	for _, id := range s.ReviewedIDs {
		set[id] = struct{}{}
	}
	return set
}
