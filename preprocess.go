package poseprep

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/openfluke/poseprep/logger"
)

// RecordingExt is the only extension FilterFileNames keeps. The comparison is
// case-sensitive.
const RecordingExt = ".json"

// RecordingID is parsed from subject_session_view.json.
type RecordingID struct {
	Subject string
	Session string
	View    string
}

func (id RecordingID) SessionKey() SessionKey {
	return SessionKey{Subject: id.Subject, Session: id.Session}
}

// Key joins the three parts the way the file name does.
func (id RecordingID) Key() string {
	return id.Subject + "_" + id.Session + "_" + id.View
}

// Recording is one loaded view, trimmed when its session asked for it.
type Recording struct {
	ID        RecordingID
	FileName  string
	Data      Sequence
	RawFrames int  // frame count before trimming
	Trimmed   bool // true when a Trim directive was applied
}

// FilterFileNames keeps names whose extension is exactly RecordingExt. Input
// order is preserved and names is not modified.
func FilterFileNames(names []string) []string {
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if fileExt(name) == RecordingExt {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// fileExt treats leading dots as part of the name, so ".json" has no extension.
func fileExt(name string) string {
	return filepath.Ext(strings.TrimLeft(filepath.Base(name), "."))
}

// ParseRecordingName lowercases the part of name before its first dot and
// splits it into subject, session and view.
func ParseRecordingName(name string) (RecordingID, error) {
	stem := strings.ToLower(strings.SplitN(filepath.Base(name), ".", 2)[0])
	parts := strings.Split(stem, "_")
	if len(parts) != 3 {
		return RecordingID{}, errorsmod.Wrapf(ErrParse, "%q splits into %d tokens, expected subject_session_view", name, len(parts))
	}
	return RecordingID{Subject: parts[0], Session: parts[1], View: parts[2]}, nil
}

// TrimFrames drops t.Lower frames from the start and t.Upper frames from the
// end of data. The result shares storage with data.
func TrimFrames(data Sequence, t Trim) (Sequence, error) {
	lower, upper := 0, 0
	if t.Lower != nil {
		lower = *t.Lower
	}
	if t.Upper != nil {
		upper = *t.Upper
	}
	if lower < 0 || upper < 0 {
		return nil, errorsmod.Wrapf(ErrDataConsistency, "negative trim bounds lower=%d upper=%d", lower, upper)
	}
	if len(data)-lower-upper < 0 {
		return nil, errorsmod.Wrapf(ErrDataConsistency, "cannot trim %d+%d frames from a %d-frame recording", lower, upper, len(data))
	}
	return data[lower : len(data)-upper], nil
}

// Preprocessor loads and trims the recordings of one extracted directory.
type Preprocessor struct {
	Table    TrimTable
	SkipTrim bool              // load everything untrimmed, without consulting Table
	Ignore   *ignore.GitIgnore // optional; matching names are never loaded

	// LoadTable fills a nil Table once the directory is known to exist.
	LoadTable func() (TrimTable, error)
}

// NewPreprocessor builds a Preprocessor. ignorePatterns use gitignore syntax.
func NewPreprocessor(table TrimTable, skipTrim bool, ignorePatterns ...string) *Preprocessor {
	p := &Preprocessor{Table: table, SkipTrim: skipTrim}
	if len(ignorePatterns) > 0 {
		p.Ignore = ignore.CompileIgnoreLines(ignorePatterns...)
	}
	return p
}

// ProcessExtractedFiles loads every recording in dir in lexicographic order.
// A missing dir is not an error: it yields no recordings.
func (p *Preprocessor) ProcessExtractedFiles(dir string) ([]Recording, error) {
	logger.Info("preprocessing")

	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("extracted directory %s does not exist, skipping", dir)
			return nil, nil
		}
		return nil, err
	}

	if !p.SkipTrim && p.Table == nil && p.LoadTable != nil {
		table, err := p.LoadTable()
		if err != nil {
			return nil, err
		}
		p.Table = table
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if p.Ignore != nil && p.Ignore.MatchesPath(e.Name()) {
			logger.Debugf("ignoring %s", e.Name())
			continue
		}
		names = append(names, e.Name())
	}
	names = FilterFileNames(names)
	sort.Strings(names)

	recordings := make([]Recording, 0, len(names))
	for _, name := range names {
		rec, err := p.processFile(dir, name)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}
	return recordings, nil
}

func (p *Preprocessor) processFile(dir, name string) (Recording, error) {
	id, err := ParseRecordingName(name)
	if err != nil {
		return Recording{}, err
	}

	var data Sequence
	if err := ReadJSON(filepath.Join(dir, name), &data); err != nil {
		return Recording{}, err
	}
	if err := data.Validate(); err != nil {
		return Recording{}, fmt.Errorf("%s: %w", name, err)
	}

	rec := Recording{ID: id, FileName: name, Data: data, RawFrames: len(data)}
	log := logger.With().Str("view", id.View).Str("session", id.SessionKey().String()).Logger()

	if !p.SkipTrim {
		directive, err := p.Table.Lookup(id.SessionKey())
		if err != nil {
			return Recording{}, fmt.Errorf("%s: %w", name, err)
		}
		if trim, ok := directive.(Trim); ok {
			log.Info().Str("shape", data.ShapeString()).Msg("trimming")
			if rec.Data, err = TrimFrames(data, trim); err != nil {
				return Recording{}, fmt.Errorf("%s: %w", name, err)
			}
			rec.Trimmed = true
		}
	}

	log.Info().Str("shape", rec.Data.ShapeString()).Bool("trimmed", rec.Trimmed).Msg("loaded")
	return rec, nil
}
