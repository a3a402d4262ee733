package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/amishk599/jobalert/internal/model"
)

// Per-message character ceilings of the delivery channels.
const (
	TelegramMaxLen = 4096
	TwilioMaxLen   = 1600
	Unlimited      = 0
)

// FormatBatch renders postings as one message of at most maxLen characters
// (no ceiling when maxLen <= 0). Trailing postings that do not fit are
// dropped and counted in a truncation note.
func FormatBatch(postings []model.Posting, maxLen int) string {
	header := fmt.Sprintf("%d new matching job(s)", len(postings))
	blocks := make([]string, len(postings))
	for i, p := range postings {
		blocks[i] = formatPosting(p)
	}

	full := joinBlocks(header, blocks)
	if maxLen <= 0 || utf8.RuneCountInString(full) <= maxLen {
		return full
	}
	if len(blocks) == 0 {
		return truncateRunes(full, maxLen)
	}

	used := utf8.RuneCountInString(header)
	kept := 0
	for kept < len(blocks) {
		next := used + 2 + utf8.RuneCountInString(blocks[kept])
		if next+utf8.RuneCountInString(truncationNote(len(blocks)-kept-1)) > maxLen {
			break
		}
		used = next
		kept++
	}
	if kept > 0 {
		return joinBlocks(header, blocks[:kept]) + truncationNote(len(blocks)-kept)
	}

	// Not even the first posting fits whole: cut it.
	first := joinBlocks(header, blocks[:1])
	note := truncationNote(len(blocks) - 1)
	room := maxLen - utf8.RuneCountInString(note)
	if room <= 0 {
		return truncateRunes(first, maxLen)
	}
	return truncateRunes(first, room) + note
}

func formatPosting(p model.Posting) string {
	locations := "Location: N/A"
	if len(p.Locations) > 0 {
		locations = strings.Join(p.Locations, ", ")
	}

	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString(" — ")
	b.WriteString(cases.Title(language.Und).String(p.Company))
	b.WriteString("\n")
	b.WriteString(locations)
	if p.URL != "" {
		b.WriteString("\n")
		b.WriteString(p.URL)
	}
	return b.String()
}

func joinBlocks(header string, blocks []string) string {
	if len(blocks) == 0 {
		return header
	}
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}

func truncationNote(dropped int) string {
	if dropped <= 0 {
		return ""
	}
	return fmt.Sprintf("\n\n… and %d more (truncated)", dropped)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
