package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxPromptChars caps how much of the raw file reaches the model. The
	// daily files are usually well under this; truncating the tail of a
	// large one still summarizes the bulk of the day's entries.
	maxPromptChars = 8000

	maxSummaryTokens = 700
	temperature      = 0.2
)

const systemPrompt = "You are an oil & gas analyst."

func buildPrompt(req Request) string {
	// AER files occasionally carry stray Latin-1 bytes in operator names;
	// replace them instead of dropping content.
	content := strings.ToValidUTF8(string(req.Content), "�")
	trimmed := truncate(content, maxPromptChars)

	var b strings.Builder
	b.WriteString("Summarize today's AER releases (ST1 well licenses, ST100 pipeline construction notices).\n")
	b.WriteString("Provide:\n")
	b.WriteString("- Key totals and notable entries\n")
	b.WriteString("- Any unusual spikes vs typical days\n")
	b.WriteString("- Operator or region callouts\n")
	b.WriteString("- Short, actionable insights\n\n")
	b.WriteString("Text:\n\n")
	fmt.Fprintf(&b, "Dataset %s (%s):\n%s", req.Dataset, req.Date, trimmed)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	// back off a partial rune at the cut point; at most UTFMax-1 bytes
	for i := 0; i < utf8.UTFMax-1 && len(cut) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
