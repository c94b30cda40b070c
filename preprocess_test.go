package poseprep

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFileNames(t *testing.T) {
	in := []string{"a.json", "b.txt", "c.JSON", "d.json.bak", ".json", "e.tar.json", "noext"}
	before := append([]string(nil), in...)

	assert.Equal(t, []string{"a.json", "e.tar.json"}, FilterFileNames(in))
	assert.Equal(t, before, in)
	assert.Empty(t, FilterFileNames(nil))
}

func TestParseRecordingName(t *testing.T) {
	id, err := ParseRecordingName("SUB0_Sess1_View2.json")
	require.NoError(t, err)
	assert.Equal(t, RecordingID{Subject: "sub0", Session: "sess1", View: "view2"}, id)
	assert.Equal(t, "sub0_sess1_view2", id.Key())
	assert.Equal(t, SessionKey{Subject: "sub0", Session: "sess1"}, id.SessionKey())

	for _, bad := range []string{"sub0_sess1.json", "sub0_sess1_view2_extra.json", "plain.json"} {
		_, err := ParseRecordingName(bad)
		assert.True(t, errors.Is(err, ErrParse), bad)
	}
}

func TestTrimFrames(t *testing.T) {
	data := makeSequence(100, 2, 3)

	got, err := TrimFrames(data, Trim{Lower: intPtr(5), Upper: intPtr(10)})
	require.NoError(t, err)
	assert.Len(t, got, 85)
	assert.Equal(t, data[5:90], got)

	got, err = TrimFrames(data, Trim{Lower: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, data[5:], got)

	got, err = TrimFrames(data, Trim{Upper: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, data[:90], got)

	got, err = TrimFrames(data, Trim{})
	require.NoError(t, err)
	assert.Len(t, got, 100)

	got, err = TrimFrames(data, Trim{Upper: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, got, 100)

	got, err = TrimFrames(data, Trim{Lower: intPtr(50), Upper: intPtr(50)})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = TrimFrames(data, Trim{Lower: intPtr(60), Upper: intPtr(41)})
	assert.True(t, errors.Is(err, ErrDataConsistency))
}

func setupExtracted(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeJSONFile(t, dir, "sub0_sess0_view1.json", makeSequence(100, 3, 2))
	writeJSONFile(t, dir, "SUB0_SESS0_VIEW0.json", makeSequence(100, 3, 2))
	writeJSONFile(t, dir, "sub0_sess1_view0.json", makeSequence(40, 3, 2))
	writeJSONFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))
	return dir
}

func testTable() TrimTable {
	return TrimTable{
		{Subject: "sub0", Session: "sess0"}: Trim{Lower: intPtr(5), Upper: intPtr(10)},
		{Subject: "sub0", Session: "sess1"}: NoTrim{Status: "ok"},
	}
}

func TestProcessExtractedFiles(t *testing.T) {
	dir := setupExtracted(t)

	recs, err := NewPreprocessor(testTable(), false).ProcessExtractedFiles(dir)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// byte order: upper-case names sort first
	assert.Equal(t, "SUB0_SESS0_VIEW0.json", recs[0].FileName)
	assert.Equal(t, "sub0_sess0_view1.json", recs[1].FileName)
	assert.Equal(t, "sub0_sess1_view0.json", recs[2].FileName)

	assert.Equal(t, RecordingID{Subject: "sub0", Session: "sess0", View: "view0"}, recs[0].ID)
	assert.True(t, recs[0].Trimmed)
	assert.Len(t, recs[0].Data, 85)
	assert.Equal(t, 100, recs[0].RawFrames)
	assert.Equal(t, float64(500), recs[0].Data[0][0][0])

	assert.False(t, recs[2].Trimmed)
	assert.Len(t, recs[2].Data, 40)
}

func TestProcessExtractedFilesSkipTrim(t *testing.T) {
	dir := setupExtracted(t)

	// no table at all: with trimming skipped nothing is looked up
	recs, err := NewPreprocessor(nil, true).ProcessExtractedFiles(dir)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for _, rec := range recs {
		assert.False(t, rec.Trimmed)
		assert.Equal(t, rec.RawFrames, len(rec.Data))
	}
}

func TestProcessExtractedFilesMissingDir(t *testing.T) {
	recs, err := NewPreprocessor(nil, false).ProcessExtractedFiles(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Nil(t, recs)
}

func TestProcessExtractedFilesMissingEntry(t *testing.T) {
	dir := setupExtracted(t)
	writeJSONFile(t, dir, "sub7_sess0_view0.json", makeSequence(10, 3, 2))

	_, err := NewPreprocessor(testTable(), false).ProcessExtractedFiles(dir)
	assert.True(t, errors.Is(err, ErrLookup))
}

func TestProcessExtractedFilesBadName(t *testing.T) {
	dir := setupExtracted(t)
	writeJSONFile(t, dir, "sub0_sess0.json", makeSequence(10, 3, 2))

	_, err := NewPreprocessor(testTable(), false).ProcessExtractedFiles(dir)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestProcessExtractedFilesTooShortToTrim(t *testing.T) {
	dir := t.TempDir()
	writeJSONFile(t, dir, "sub0_sess0_view0.json", makeSequence(12, 3, 2))

	_, err := NewPreprocessor(testTable(), false).ProcessExtractedFiles(dir)
	assert.True(t, errors.Is(err, ErrDataConsistency))
}

func TestProcessExtractedFilesRaggedRecording(t *testing.T) {
	dir := t.TempDir()
	ragged := makeSequence(3, 3, 2)
	ragged[1] = ragged[1][:2]
	writeJSONFile(t, dir, "sub0_sess1_view0.json", ragged)

	_, err := NewPreprocessor(testTable(), false).ProcessExtractedFiles(dir)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestProcessExtractedFilesIgnorePatterns(t *testing.T) {
	dir := setupExtracted(t)
	writeJSONFile(t, dir, "calib_board.json", map[string]int{"x": 1})

	recs, err := NewPreprocessor(testTable(), false, "calib_*", "*_view1.json").ProcessExtractedFiles(dir)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotEqual(t, "view1", rec.ID.View)
	}
}

func TestProcessExtractedFilesLoadsTableLazily(t *testing.T) {
	calls := 0
	p := NewPreprocessor(nil, false)
	p.LoadTable = func() (TrimTable, error) {
		calls++
		return testTable(), nil
	}

	recs, err := p.ProcessExtractedFiles(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Nil(t, recs)
	assert.Equal(t, 0, calls)

	recs, err = p.ProcessExtractedFiles(setupExtracted(t))
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Equal(t, 1, calls)

	_, err = p.ProcessExtractedFiles(setupExtracted(t))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "table is read once")

	boom := errors.New("boom")
	p = NewPreprocessor(nil, false)
	p.LoadTable = func() (TrimTable, error) { return nil, boom }
	_, err = p.ProcessExtractedFiles(setupExtracted(t))
	assert.ErrorIs(t, err, boom)

	p = NewPreprocessor(nil, true)
	p.LoadTable = func() (TrimTable, error) { return nil, boom }
	_, err = p.ProcessExtractedFiles(setupExtracted(t))
	assert.NoError(t, err)
}
