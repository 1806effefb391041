// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	werrors "warehousecharts/cli/internal/errors"

	"github.com/pterm/pterm"
	"go.uber.org/multierr"
)

// Cause is a coarse classification of a data access failure, used to pick a hint.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseNetwork
	CauseAuth
	CauseTimeout
	CauseNotFound
	CauseSchema
)

// ParseCause categorizes a data access error message.
func ParseCause(errMsg string) Cause {
	lower := strings.ToLower(errMsg)
	switch {
	case strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout"):
		return CauseTimeout
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset"):
		return CauseNetwork
	case strings.Contains(lower, "password authentication") || strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "credentials") || strings.Contains(lower, "403"):
		return CauseAuth
	case strings.Contains(lower, "missing columns") || strings.Contains(lower, "no such column") ||
		strings.Contains(lower, "returned columns") || (strings.Contains(lower, "column") && strings.Contains(lower, "does not exist")):
		return CauseSchema
	case strings.Contains(lower, "not found") || strings.Contains(lower, "no such table") ||
		strings.Contains(lower, "does not exist"):
		return CauseNotFound
	}
	return CauseUnknown
}

// Hint returns a short remedy for err based on its kind.
func Hint(err error) string {
	switch werrors.KindOf(err) {
	case werrors.DataAccess:
		switch ParseCause(err.Error()) {
		case CauseNetwork:
			return "The warehouse could not be reached. Check the host, port and network path."
		case CauseAuth:
			return "The warehouse rejected the credentials. Check the DSN or your Google application credentials."
		case CauseTimeout:
			return "The warehouse did not answer in time. Try again or check its load."
		case CauseNotFound:
			return "The source table was not found. Check --table and --project."
		case CauseSchema:
			return "The source table does not have the expected columns. Run 'warehouse-charts check' for details."
		}
		return "A report query failed. Run with --verbose for the query log."
	case werrors.Filesystem:
		return "The output directory could not be written. Check --out and its permissions."
	case werrors.Render:
		return "A chart could not be drawn from the fetched rows."
	case werrors.Config:
		return "Check the flags, environment and config file."
	}
	return ""
}

// FormatError renders err, or every error combined in it, with a title line
// and a hint per distinct kind.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	errs := multierr.Errors(err)

	var b strings.Builder
	title := "Run failed"
	if len(errs) > 1 {
		title = fmt.Sprintf("Run failed with %d errors", len(errs))
	}
	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title))
	b.WriteString("\n")

	seen := map[string]struct{}{}
	var hints []string
	for _, e := range errs {
		b.WriteString("  • ")
		b.WriteString(Mask(e.Error()))
		b.WriteString("\n")
		if h := Hint(e); h != "" {
			if _, dup := seen[h]; !dup {
				seen[h] = struct{}{}
				hints = append(hints, h)
			}
		}
	}
	for _, h := range hints {
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ " + h))
		b.WriteString("\n")
	}
	return b.String()
}
