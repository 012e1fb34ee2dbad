package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL optionally appends disable_prepared_binary_result=yes,
// which some postgres-compatible poolers need when they cannot speak the
// binary extended protocol.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := parsed.Query()
	if q.Has("disable_prepared_binary_result") {
		return raw
	}
	q.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// dbNameFromURL extracts the database name to label spans with. Handles
// both URL-style and key=value connection strings; returns "" when the
// name cannot be determined.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"'`); name != "" {
			return name
		}
	}
	return ""
}
