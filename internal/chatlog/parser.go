package chatlog

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lrm is the left-to-right mark WhatsApp inserts around names and media tokens.
const lrm = "\u200e"

// timestampLayout is the normalized form handed to time.Parse.
const timestampLayout = "02/01/06, 3:04 PM"

// linePattern matches "DD/MM/YY, H:MM am - Author: Message".
// Whitespace includes the narrow no-break space newer exports put before the marker.
var linePattern = regexp.MustCompile(
	`^(\d{2})/(\d{2})/(\d{2}), (\d{1,2}):(\d{2})([\s\p{Zs}]?)([apAP][mM])[\s\p{Zs}]-[\s\p{Zs}](.*?):[\s\p{Zs}](.*)$`,
)

// Parse converts a raw chat export into records, one per matching line, in file order.
// Lines that do not match the grammar are dropped. A nil result means nothing parsed.
func Parse(raw string) []Record {
	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ParseReader reads an export from r and parses it.
func ParseReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(string(data)), nil
}

// ParseFile parses the export at path. Only I/O failures are returned as errors.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// parseLine matches a single line. The author is everything up to the first ": ",
// so names that themselves contain ": " are split in the wrong place.
func parseLine(line string) (Record, bool) {
	line = strings.ReplaceAll(strings.TrimSpace(line), lrm, "")

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	author := m[8]
	if author == "" {
		return Record{}, false
	}

	ts, _ := parseTimestamp(m[1], m[2], m[3], m[4], m[5], m[6], m[7])
	return Record{
		Timestamp: ts,
		Author:    author,
		Message:   m[9],
	}, true
}

// parseTimestamp validates the captured fields against DD/MM/YY, h:MM AM|PM.
// The marker must be separated from the minutes by whitespace; otherwise, or for
// impossible dates and times, the zero time is returned.
func parseTimestamp(day, month, year, hour, minute, sep, marker string) (time.Time, bool) {
	if sep == "" {
		return time.Time{}, false
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return time.Time{}, false
	}

	norm := fmt.Sprintf("%s/%s/%s, %d:%s %s", day, month, year, h, minute, strings.ToUpper(marker))
	ts, err := time.Parse(timestampLayout, norm)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
