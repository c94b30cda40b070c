package poseprep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// TrimStatus is the table status that asks for a session to be trimmed.
const TrimStatus = "trim"

// SessionKey identifies one recording session of one subject.
type SessionKey struct {
	Subject string
	Session string
}

func (k SessionKey) String() string {
	return k.Subject + "_" + k.Session
}

// TrimDirective is either NoTrim or Trim.
type TrimDirective interface {
	isTrimDirective()
}

// NoTrim leaves a session untouched. Status keeps whatever the table said.
type NoTrim struct {
	Status string
}

// Trim drops Lower frames from the start and Upper frames from the end.
// A nil bound drops nothing on that side.
type Trim struct {
	Lower *int
	Upper *int
}

func (NoTrim) isTrimDirective() {}
func (Trim) isTrimDirective()   {}

// TrimEntry is the on-disk shape of one table value.
type TrimEntry struct {
	Status      *string `json:"status"`
	LowerFrames *int    `json:"lower_frames"`
	UpperFrames *int    `json:"upper_frames"`
}

// TrimTable maps sessions to their directive. It is built once and only read
// afterwards.
type TrimTable map[SessionKey]TrimDirective

// LoadTrimTable reads a {subject: {session: entry}} document from path.
func LoadTrimTable(path string) (TrimTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load trim table: %w", err)
	}
	var raw map[string]map[string]TrimEntry
	if err := DecodeJSON(b, filepath.Ext(path), &raw, WithStrictFields()); err != nil {
		return nil, errorsmod.Wrapf(ErrMalformedTable, "%s: %v", path, err)
	}
	return ParseTrimTable(raw)
}

// ParseTrimTable validates every entry and builds the typed table. Subject and
// session names are lowercased so they match parsed recording names.
func ParseTrimTable(raw map[string]map[string]TrimEntry) (TrimTable, error) {
	table := make(TrimTable)

	subjects := make([]string, 0, len(raw))
	for s := range raw {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		sessions := make([]string, 0, len(raw[subject]))
		for s := range raw[subject] {
			sessions = append(sessions, s)
		}
		sort.Strings(sessions)

		for _, session := range sessions {
			key := SessionKey{Subject: strings.ToLower(subject), Session: strings.ToLower(session)}
			if _, dup := table[key]; dup {
				return nil, errorsmod.Wrapf(ErrMalformedTable, "%s appears more than once", key)
			}
			directive, err := parseTrimEntry(raw[subject][session])
			if err != nil {
				return nil, errorsmod.Wrapf(ErrMalformedTable, "%s: %v", key, err)
			}
			table[key] = directive
		}
	}
	return table, nil
}

func parseTrimEntry(e TrimEntry) (TrimDirective, error) {
	if e.Status == nil {
		return nil, errors.New("missing status")
	}
	if e.LowerFrames != nil && *e.LowerFrames < 0 {
		return nil, fmt.Errorf("lower_frames %d is negative", *e.LowerFrames)
	}
	if e.UpperFrames != nil && *e.UpperFrames < 0 {
		return nil, fmt.Errorf("upper_frames %d is negative", *e.UpperFrames)
	}
	if *e.Status != TrimStatus {
		return NoTrim{Status: *e.Status}, nil
	}
	return Trim{Lower: copyInt(e.LowerFrames), Upper: copyInt(e.UpperFrames)}, nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Lookup returns the directive for key.
func (t TrimTable) Lookup(key SessionKey) (TrimDirective, error) {
	d, ok := t[key]
	if !ok {
		return nil, errorsmod.Wrapf(ErrLookup, "no entry for subject %q session %q", key.Subject, key.Session)
	}
	return d, nil
}
