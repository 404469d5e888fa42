package dotchart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/QEStudios/ChartTidy/chart"
)

// splitOnce splits s at the first sep and trims both halves.
// If sep isn't found, first is all of s and second is empty.
func splitOnce(s string, sep string) (first, second string) {
	first, second, _ = strings.Cut(s, sep)
	return strings.TrimSpace(first), strings.TrimSpace(second)
}

// parseTick parses a non-negative 32-bit tick or integer field.
func parseTick(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return uint32(v), nil
}

// splitRecord splits "time = TAG payload" into its three parts.
func splitRecord(line string) (uint32, string, string, error) {
	key, rest := splitOnce(line, "=")
	if rest == "" {
		return 0, "", "", errors.New("expected 'time = TYPE value'")
	}
	time, err := parseTick(key)
	if err != nil {
		return 0, "", "", fmt.Errorf("invalid time: %w", err)
	}
	tag, payload := splitOnce(rest, " ")
	return time, tag, payload, nil
}

// parseIndexDuration parses the "index duration" payload of N and S records.
func parseIndexDuration(payload string) (uint32, uint32, error) {
	fields := strings.Fields(payload)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 'index duration', found %q", payload)
	}
	index, err := parseTick(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index: %w", err)
	}
	duration, err := parseTick(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid duration: %w", err)
	}
	return index, duration, nil
}

func (p *Parser) decodeSongLine(line string) error {
	key, value := splitOnce(line, "=")
	return p.doc.Song.Set(key, value)
}

func (p *Parser) decodeSyncTrackLine(line string) error {
	time, tag, payload, err := splitRecord(line)
	if err != nil {
		return err
	}
	value, err := parseTick(payload)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", tag, err)
	}
	kind, _ := chart.KindForTag(tag)
	switch kind {
	case chart.KindTempo:
		p.doc.SyncTrack = append(p.doc.SyncTrack, chart.NewTempo(time, value))
	case chart.KindTimeSig:
		p.doc.SyncTrack = append(p.doc.SyncTrack, chart.NewTimeSig(time, value))
	default:
		return fmt.Errorf("unknown sync track event type %q", tag)
	}
	return nil
}

func (p *Parser) decodeEventsLine(line string) error {
	time, tag, payload, err := splitRecord(line)
	if err != nil {
		return err
	}
	if kind, ok := chart.KindForTag(tag); !ok || kind != chart.KindMarker {
		return fmt.Errorf("unknown event type %q", tag)
	}
	p.doc.Events = append(p.doc.Events, chart.NewMarker(time, payload))
	return nil
}

func (p *Parser) decodeNoteTrackLine(line string) error {
	time, tag, payload, err := splitRecord(line)
	if err != nil {
		return err
	}

	kind, ok := chart.KindForTag(tag)
	if !ok {
		return fmt.Errorf("unknown note track event type %q", tag)
	}

	var record chart.Event
	switch kind {
	case chart.KindNote:
		index, duration, err := parseIndexDuration(payload)
		if err != nil {
			return err
		}
		if index > chart.MaxNoteIndex {
			return fmt.Errorf("note index %d out of range 0..%d", index, chart.MaxNoteIndex)
		}
		record = chart.NewNoteFragment(time, index, duration)

	case chart.KindStarPower:
		index, duration, err := parseIndexDuration(payload)
		if err != nil {
			return err
		}
		record = chart.NewStarPower(time, index, duration)

	case chart.KindMarker:
		switch payload {
		case p.opts.TapMarker:
			record = chart.NewNoteFragment(time, chart.FlagTap, 0)
			p.addTimedDiagnostic(chart.SeverityInfo, time, "replacing track event E %s with tap flag", payload)
		case p.opts.ForceMarker:
			record = chart.NewNoteFragment(time, chart.FlagForce, 0)
			p.addTimedDiagnostic(chart.SeverityInfo, time, "replacing track event E %s with HOPO flip flag", payload)
		default:
			// Other track events aren't kept.
			p.addTimedDiagnostic(chart.SeverityWarning, time, "removing unknown track event E %s", payload)
			return nil
		}

	default:
		return fmt.Errorf("unknown note track event type %q", tag)
	}

	p.fragments[p.section] = append(p.fragments[p.section], record)
	return nil
}
