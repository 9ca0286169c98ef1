// Package members parses bulk member imports.
//
// The format is deliberately lenient: one member per line with up to four
// comma-separated fields (name, email, phone, role). Missing trailing fields
// are left empty, extra fields are ignored and blank lines are dropped.
package members

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

// DefaultMaxRows caps a single import.
const DefaultMaxRows = 5000

// MaxLineBytes caps a single line.
const MaxLineBytes = 64 * 1024

const fieldsPerLine = 4

// RowError describes a line that could not become a member.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw"`
}

// Result holds the parsed members and the lines that were skipped.
type Result struct {
	Members []models.MemberInput `json:"members"`
	Errors  []RowError           `json:"errors"`
}

func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Options tune the parser. A zero MaxRows means DefaultMaxRows.
type Options struct {
	MaxRows int
}

// ParseMemberLines parses a text blob.
func ParseMemberLines(text string, opts Options) (Result, error) {
	return Parse(strings.NewReader(text), opts)
}

// Parse reads member lines from r. It fails only when the input cannot be
// read or exceeds the row limit; malformed lines are reported in Result.Errors.
func Parse(r io.Reader, opts Options) (Result, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	res := Result{Members: []models.MemberInput{}, Errors: []RowError{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineBytes)
	lineNum := 0
	seenContent := false
	for sc.Scan() {
		lineNum++
		raw := sc.Text()
		if lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}

		fields := splitFields(raw)
		first := !seenContent
		seenContent = true
		if first && isHeader(fields) {
			continue
		}
		if fields[0] == "" {
			res.Errors = append(res.Errors, RowError{Line: lineNum, Reason: "missing name", Raw: raw})
			continue
		}
		if len(res.Members) >= maxRows {
			return res, apperr.Validation("import exceeds %d rows", maxRows)
		}
		res.Members = append(res.Members, models.MemberInput{
			Name:  fields[0],
			Email: fields[1],
			Phone: fields[2],
			Role:  fields[3],
		})
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return res, apperr.Validation("line %d exceeds %d bytes", lineNum+1, MaxLineBytes)
		}
		return res, fmt.Errorf("read member lines: %w", err)
	}
	return res, nil
}

// splitFields returns exactly four trimmed fields.
func splitFields(line string) [fieldsPerLine]string {
	var out [fieldsPerLine]string
	for i, f := range strings.Split(line, ",") {
		if i >= fieldsPerLine {
			break
		}
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func isHeader(fields [fieldsPerLine]string) bool {
	name := strings.ToLower(fields[0])
	email := strings.ToLower(fields[1])
	return (name == "name" || name == "member_name" || name == "full name") &&
		(email == "" || strings.Contains(email, "email"))
}
