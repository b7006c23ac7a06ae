package vfs

import "strings"

// uniqueViolationMarkers are substrings each supported SQL driver embeds in
// a unique-constraint violation's error text. gorm does not normalize this
// across dialects, so detection is string-based — grounded in the same
// driver set pkg/database wires up (sqlite, postgres, mysql, sqlserver).
var uniqueViolationMarkers = []string{
	"UNIQUE constraint failed",             // sqlite
	"duplicate key value violates unique",  // postgres
	"Duplicate entry",                      // mysql
	"Violation of UNIQUE KEY constraint",   // sqlserver
	"Violation of PRIMARY KEY constraint",  // sqlserver
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range uniqueViolationMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
