package storage

import (
	"fmt"
	"strings"
	"time"
)

// EvidenceKey is {userId}/{caseId}/{evidenceId}/{unixMillis}-{filename}.
func EvidenceKey(userID, caseID, evidenceID string, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%d-%s", userID, caseID, evidenceID, at.UnixMilli(), CleanFilename(filename))
}

// PacketKey is {userId}/{caseId}/packet-{unixMillis}.pdf.
func PacketKey(userID, caseID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/packet-%d.pdf", userID, caseID, at.UnixMilli())
}

// CleanFilename drops any directory part a client sent and replaces path
// separators so a filename can never escape its evidence prefix.
func CleanFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// IsSignedURL reports whether u already looks like a usable http(s) link.
func IsSignedURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
