package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lox/arenacore/internal/match"
)

// RawLine is the minimal shape every line decodes into first, so the reader
// can dispatch on "type" before parsing the full variant.
type rawLine struct {
	Type match.EventType `json:"type"`
}

// ReadAll decodes every line of r into its concrete match.Event variant, in
// file order. A line with an unrecognized "type" is an error: the log
// convention admits only the three documented variants.
func ReadAll(r io.Reader) ([]match.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var events []match.Event
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw rawLine
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("eventlog: line %d: %w", lineNo, err)
		}
		switch raw.Type {
		case match.EventTypeMatchStart:
			var ev match.MatchStartEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				return nil, fmt.Errorf("eventlog: line %d: decode MATCH_START: %w", lineNo, err)
			}
			events = append(events, ev)
		case match.EventTypeTurn:
			var ev match.TurnEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				return nil, fmt.Errorf("eventlog: line %d: decode TURN: %w", lineNo, err)
			}
			events = append(events, ev)
		case match.EventTypeMatchEnd:
			var ev match.MatchEndEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				return nil, fmt.Errorf("eventlog: line %d: decode MATCH_END: %w", lineNo, err)
			}
			events = append(events, ev)
		default:
			return nil, fmt.Errorf("eventlog: line %d: unknown event type %q", lineNo, raw.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("eventlog: scan: %w", err)
	}
	return events, nil
}
