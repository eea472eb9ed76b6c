package seamcarve

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	src := textured(t, 40, 60)
	dst, err := Carve(src, 3, 5)
	require.NoError(t, err)

	var p Report
	require.NoError(t, p.Setup())
	require.NoError(t, p.AddSummary("pg1.png", []string{"Row seams: 3", "Column seams: 5"}))
	require.NoError(t, p.AddImage("source", src.ToGray()))
	require.NoError(t, p.AddImage("carved", dst.ToGray()))

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	var q Report
	require.NoError(t, q.Setup())
	require.NoError(t, q.AddImage("source", src.ToGray()))
	assert.NoError(t, q.Save(filepath.Join(t.TempDir(), "report.pdf")))
}
