package application

import (
	"fmt"
	"strings"

	"github.com/0xcathiefish/discord-qqmusic-bot/internal/modules/music/domain"
)

// Column widths of the search result table.
const (
	idColumnWidth     = 25
	titleColumnWidth  = 30
	artistColumnWidth = 30
)

// FormatSearchResult renders tracks as a fixed-width table wrapped in a chat
// code block, one row per track in catalog order.
func FormatSearchResult(result domain.SearchResult) string {
	if len(result) == 0 {
		return "List is empty"
	}

	var b strings.Builder
	b.WriteString("```\n")
	writeRow(&b, "ID", "Name", "Player")
	for _, track := range result {
		writeRow(&b, track.ID, track.Title, track.Artist)
	}
	b.WriteString("```")
	return b.String()
}

func writeRow(b *strings.Builder, id, title, artist string) {
	fmt.Fprintf(b, "%s %s %s\n",
		padCell(id, idColumnWidth),
		padCell(title, titleColumnWidth),
		padCell(artist, artistColumnWidth),
	)
}

// padCell left-aligns s into a cell of the given rune width, truncating long
// values with a "..." marker so one oversized title cannot break the layout.
func padCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}
