package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MinIDPrefix is the shortest ID prefix accepted as a task reference.
const MinIDPrefix = 4

// TaskRef represents a parsed task reference: either a 1-based number from
// `dtask list` or a prefix of the task's stable ID.
//
// An all-digit ref of at least MinIDPrefix characters sets both fields: it
// is tried as a list number first, then as an ID prefix.
type TaskRef struct {
	Num      int    // 0 for a non-numeric ref
	IDPrefix string // lowercase; empty for a short number
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. No args → ErrTaskRefRequired
//  2. More than one arg → error: too many arguments
//  3. All digits → list number (and ID prefix when long enough)
//  4. At least MinIDPrefix hex digits or dashes → ID prefix
//  5. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	ref := strings.TrimSpace(args[0])

	if isAllDigits(ref) {
		var tr TaskRef
		if len(ref) >= MinIDPrefix {
			tr.IDPrefix = ref
		}
		num, err := strconv.Atoi(ref)
		if err != nil && tr.IDPrefix == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		if err == nil {
			tr.Num = num
		}
		return tr, nil
	}

	if len(ref) >= MinIDPrefix && isIDPrefix(ref) {
		return TaskRef{IDPrefix: strings.ToLower(ref)}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isIDPrefix returns true if s could be the start of a UUID.
func isIDPrefix(s string) bool {
	for _, r := range s {
		if r == '-' || unicode.Is(unicode.ASCII_Hex_Digit, r) {
			continue
		}
		return false
	}
	return true
}
