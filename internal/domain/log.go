package domain

import "time"

type LogEntry struct {
	Message   string    `json:"message"`
	Seat      *SeatID   `json:"seat,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GameLog is append-only. Entries are never edited; the whole log is
// dropped when a game is started or reset.
type GameLog struct {
	entries []LogEntry
}

func (l *GameLog) Append(message string, seat *SeatID, at time.Time) LogEntry {
	entry := LogEntry{Message: message, Timestamp: at}
	if seat != nil {
		s := *seat
		entry.Seat = &s
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of the log in chronological order.
func (l *GameLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *GameLog) Len() int {
	return len(l.entries)
}

func (l *GameLog) Clear() {
	l.entries = nil
}
