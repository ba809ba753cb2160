package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// NotableEvent is a single recorded bookmark with a magnitude score used to
// rank it against others of the same type, so the ledger keeps the most
// significant occurrence of each bookmark type rather than the latest.
type NotableEvent struct {
	Type        BookmarkType
	Tick        int64
	Magnitude   float64
	Description string
}

// NotableLedger keeps the top-K notable events per bookmark type, sorted
// descending by magnitude, maintained the same way the teacher's hall of
// fame keeps its per-archetype top-K brains: bounded sorted insertion,
// trimmed to capacity.
type NotableLedger struct {
	byType  map[BookmarkType][]NotableEvent
	maxSize int
}

// NewNotableLedger creates a ledger retaining up to maxSize events per
// bookmark type.
func NewNotableLedger(maxSize int) *NotableLedger {
	if maxSize < 1 {
		maxSize = 1
	}
	return &NotableLedger{byType: make(map[BookmarkType][]NotableEvent), maxSize: maxSize}
}

// magnitudeFor scores a bookmark by the field most indicative of how
// remarkable it is, so two explosions or two fire chains can be ranked
// against each other.
func magnitudeFor(b Bookmark, stats WindowStats) float64 {
	switch b.Type {
	case BookmarkBigExplosion:
		return float64(stats.CellsCleared)
	case BookmarkLongFireChain:
		return float64(stats.FireIgnitions)
	case BookmarkDeepEther:
		return stats.EtherStorageP90
	default:
		return 0
	}
}

// Consider inserts every bookmark produced this window into its type's
// ranked list, trimming to capacity.
func (l *NotableLedger) Consider(bookmarks []Bookmark, stats WindowStats) {
	for _, b := range bookmarks {
		event := NotableEvent{
			Type:        b.Type,
			Tick:        b.Tick,
			Magnitude:   magnitudeFor(b, stats),
			Description: b.Description,
		}
		hall := l.byType[b.Type]
		l.byType[b.Type] = l.insertEntry(hall, event)
	}
}

func (l *NotableLedger) insertEntry(hall []NotableEvent, entry NotableEvent) []NotableEvent {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Magnitude < entry.Magnitude
	})

	if len(hall) >= l.maxSize && idx >= l.maxSize {
		return hall
	}

	hall = append(hall, NotableEvent{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > l.maxSize {
		hall = hall[:l.maxSize]
	}
	return hall
}

// Top returns the ranked events recorded for a bookmark type, most
// significant first.
func (l *NotableLedger) Top(t BookmarkType) []NotableEvent {
	return l.byType[t]
}

// Size returns the number of entries recorded for a bookmark type.
func (l *NotableLedger) Size(t BookmarkType) int {
	return len(l.byType[t])
}

// MarshalJSON serializes the ledger, keyed by bookmark type.
func (l *NotableLedger) MarshalJSON() ([]byte, error) {
	export := make(map[BookmarkType][]NotableEvent, len(l.byType))
	for t, hall := range l.byType {
		export[t] = hall
	}
	return json.MarshalIndent(export, "", "  ")
}

// SaveNotableLedger writes the ledger to path as indented JSON.
func SaveNotableLedger(l *NotableLedger, path string) error {
	data, err := l.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshalling notable ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing notable ledger: %w", err)
	}
	return nil
}

// LoadNotableLedger reads a ledger JSON file written by SaveNotableLedger.
func LoadNotableLedger(path string, maxSize int) (*NotableLedger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notable ledger: %w", err)
	}

	var raw map[BookmarkType][]NotableEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing notable ledger JSON: %w", err)
	}

	ledger := NewNotableLedger(maxSize)
	for t, entries := range raw {
		for _, e := range entries {
			ledger.byType[t] = ledger.insertEntry(ledger.byType[t], e)
		}
	}
	return ledger, nil
}
