package schedule

import (
	"log"
	"regexp"
	"strings"
)

var (
	lineRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s+([A-Za-z]+)\b\s*(.*)$`)
	dayRe  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

// ParseLine parses one schedule line of the shape
//
//	HH:MM-HH:MM STATUS [activity text]
//
// and reports whether it matched. There is no partial-match recovery: a
// missing or unknown status keyword fails the whole line so the parser
// never fabricates schedule data. The caller decides whether a failed line
// is noise or a continuation of the previous block's activity.
func ParseLine(line string) (TimeBlock, bool) {
	m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return TimeBlock{}, false
	}

	start, ok := ParseClock(m[1] + ":" + m[2])
	if !ok {
		return TimeBlock{}, false
	}
	end, ok := ParseClock(m[3] + ":" + m[4])
	if !ok {
		return TimeBlock{}, false
	}
	if start == end {
		return TimeBlock{}, false
	}

	status, ok := ParseStatus(m[5])
	if !ok {
		return TimeBlock{}, false
	}

	activity := strings.TrimSpace(m[6])
	// Cosmetic only: one trailing period, not full punctuation stripping.
	activity = strings.TrimSuffix(activity, ".")

	return TimeBlock{Start: start, End: end, Status: status, Activity: activity}, true
}

// ParseWeek recovers a weekly schedule from free-form model output. The
// document is normalized, segmented on the seven day names (any case,
// whole word) and each day's lines are parsed in encounter order. Lines
// that fail the block pattern after at least one block exists for the day
// are folded into that block's activity; failed lines before any block are
// dropped. A day appears in the result only with at least one block.
//
// ParseWeek never fails: the worst malformed input degrades to an empty
// schedule, which resolves to the default online snapshot downstream.
func ParseWeek(text string) *WeeklySchedule {
	ws := &WeeklySchedule{
		Days:           make(map[string][]TimeBlock),
		ResponseDelays: defaultResponseDelays(),
	}

	normalized := Normalize(text)

	headers := dayRe.FindAllStringIndex(normalized, -1)
	for i, loc := range headers {
		day := strings.ToLower(normalized[loc[0]:loc[1]])

		contentEnd := len(normalized)
		if i+1 < len(headers) {
			contentEnd = headers[i+1][0]
		}
		content := normalized[loc[1]:contentEnd]

		blocks := parseDayContent(day, content)
		if len(blocks) > 0 {
			ws.Days[day] = append(ws.Days[day], blocks...)
		}
	}

	return ws
}

func parseDayContent(day, content string) []TimeBlock {
	var blocks []TimeBlock

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		block, ok := ParseLine(line)
		if ok {
			blocks = append(blocks, block)
			continue
		}

		if len(blocks) == 0 {
			// Noise before the first block. Diagnostics only, never an error.
			log.Printf("🗓️ Discarding unmatched schedule line for %s: %q", day, line)
			continue
		}

		// The model sometimes wraps an activity description across lines;
		// fold the leftover text into the most recent block.
		last := &blocks[len(blocks)-1]
		if last.Activity == "" {
			last.Activity = line
		} else {
			last.Activity += " " + line
		}
	}

	return blocks
}
