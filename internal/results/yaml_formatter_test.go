package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/bookmerge/internal/merge"
	"github.com/lehigh-university-libraries/bookmerge/internal/pipeline"
	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveToYAML(t *testing.T) {
	rules := merge.DefaultRules()
	res := pipeline.New(rules, nil).Run(
		[]records.PrimaryRecord{{ID: records.String("1"), Title: records.String("Dune")}},
		[]records.SecondaryRecord{{GBID: records.String("1"), Publisher: records.String("Chilton")}},
	)
	report := NewRunReport(res, rules, "landing/goodreads_books.json", "landing/googlebooks_books.csv")

	dir := t.TempDir()
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	path, err := SaveToYAML(dir, report, now)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, "merge-2024-05-06_07-08-09.yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded RunReport
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, res.RunID, decoded.RunID)
	assert.Equal(t, rules, decoded.Config.Rules)
	assert.Equal(t, map[string]int{"id": 1}, decoded.MergeMethods)
	assert.Equal(t, 1, decoded.Metrics.MatchedWithGoogle)
	assert.Equal(t, 1, decoded.Index.ByID)
}
