// Package logutil keeps sensitive values out of log output.
package logutil

// TruncateForLog shortens s to maxLen characters, appending "..." when it
// was cut. Bearer tokens and provider references are logged through this so
// only a prefix ever reaches the logs.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
