package status

import (
	"fmt"
)

// FileFormatter defines how written documents should be described in logs
type FileFormatter interface {
	// FormatFileOperation formats the outcome of writing one document
	FormatFileOperation(info FileInfo) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file operation status message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	switch info.Status {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s (%d matches)", info.Path, info.Matches)
	case StatusModified:
		return fmt.Sprintf("📝 Rewrote %s (%d matches)", info.Path, info.Matches)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", info.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	}
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
