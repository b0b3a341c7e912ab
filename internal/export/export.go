// Package export renders saved quotes and their journal notes as a plain
// text document the user can download and keep.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/quotify/quotifyd/internal/models"
)

const dateLayout = "2006-01-02"

// Build renders the export document for the given saved quotes and notes.
// Notes are keyed by quote key.
func Build(saved []models.SavedQuote, notes map[string]models.JournalEntry, now time.Time) string {
	var b strings.Builder

	b.WriteString("Quotify Notes Export\n")
	b.WriteString("====================\n\n")
	fmt.Fprintf(&b, "Exported on: %s\n", now.Format(dateLayout))
	fmt.Fprintf(&b, "Total quotes: %d\n\n", len(saved))

	for i, item := range saved {
		fmt.Fprintf(&b, "Quote %d:\n", i+1)
		fmt.Fprintf(&b, "%q\n", item.Quote.Text)
		fmt.Fprintf(&b, "— %s\n", item.Quote.Author)

		if entry, ok := notes[item.Quote.Key()]; ok {
			fmt.Fprintf(&b, "My note: %s\n", entry.Note)
			fmt.Fprintf(&b, "Saved on: %s\n", entry.Date.Format(dateLayout))
		}

		b.WriteString("\n" + strings.Repeat("=", 40) + "\n\n")
	}

	return b.String()
}

// Filename returns the dated download name for an export
func Filename(now time.Time) string {
	return fmt.Sprintf("quotify-notes-%s.txt", now.Format(dateLayout))
}
