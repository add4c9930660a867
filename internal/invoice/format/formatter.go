// Package format renders invoice numbers from a template string. Templates
// use brace tokens, e.g. "INV-{YYYY}{MM}-{SEQ6}" with seq 42 in March 2026
// renders "INV-202603-000042".
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported tokens:
//
//	{YYYY}  four-digit year
//	{YY}    two-digit year
//	{MM}    zero-padded month
//	{DD}    zero-padded day of month
//	{SEQ}   sequence number, no padding
//	{SEQn}  sequence number, zero-padded to n digits (n 1..12)
func InvoiceNumber(template string, seq int64, at time.Time) string {
	var b strings.Builder
	b.Grow(len(template) + 8)

	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			b.WriteString(template)
			break
		}
		close := strings.IndexByte(template[open:], '}')
		if close < 0 {
			b.WriteString(template)
			break
		}
		close += open

		b.WriteString(template[:open])
		b.WriteString(renderToken(template[open+1:close], seq, at))
		template = template[close+1:]
	}

	return b.String()
}

func renderToken(token string, seq int64, at time.Time) string {
	switch token {
	case "YYYY":
		return fmt.Sprintf("%04d", at.Year())
	case "YY":
		return fmt.Sprintf("%02d", at.Year()%100)
	case "MM":
		return fmt.Sprintf("%02d", int(at.Month()))
	case "DD":
		return fmt.Sprintf("%02d", at.Day())
	case "SEQ":
		return strconv.FormatInt(seq, 10)
	}

	if width, ok := seqWidth(token); ok {
		return fmt.Sprintf("%0*d", width, seq)
	}

	// Unknown tokens pass through verbatim so a typo is visible in the
	// rendered number instead of silently dropped.
	return "{" + token + "}"
}

func seqWidth(token string) (int, bool) {
	rest, ok := strings.CutPrefix(token, "SEQ")
	if !ok || rest == "" {
		return 0, false
	}
	width, err := strconv.Atoi(rest)
	if err != nil || width < 1 || width > 12 {
		return 0, false
	}
	return width, true
}
