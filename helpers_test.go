package poseprep

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeSequence fills every value with f*100 + j*10 + c so slices are easy to
// recognise in assertions.
func makeSequence(frames, joints, coords int) Sequence {
	s := make(Sequence, frames)
	for f := range s {
		s[f] = make([][]float64, joints)
		for j := range s[f] {
			s[f][j] = make([]float64, coords)
			for c := range s[f][j] {
				s[f][j][c] = float64(f*100 + j*10 + c)
			}
		}
	}
	return s
}

func writeJSONFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
