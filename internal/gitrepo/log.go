package gitrepo

import "strings"

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// logFormat emits hash, author date, author name and subject separated by
// ASCII unit separators, with a record separator after each commit.
const logFormat = "--pretty=format:%H%x1f%ad%x1f%an%x1f%s%x1e"

type LogEntry struct {
	SHA     string
	Date    string
	Author  string
	Subject string
}

// ParseLog splits output produced with logFormat into entries, skipping
// blank or malformed records.
func ParseLog(out string) []LogEntry {
	if strings.TrimSpace(out) == "" {
		return nil
	}
	records := strings.Split(out, recordSep)
	entries := make([]LogEntry, 0, len(records))
	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSep, 4)
		if len(fields) < 3 {
			continue
		}
		entry := LogEntry{
			SHA:    strings.TrimSpace(fields[0]),
			Date:   strings.TrimSpace(fields[1]),
			Author: strings.TrimSpace(fields[2]),
		}
		if len(fields) == 4 {
			entry.Subject = strings.TrimSpace(fields[3])
		}
		entries = append(entries, entry)
	}
	return entries
}
