package stats_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kampersanda/bonsaigo/internal/stats"
)

func TestReport_Markdown(t *testing.T) {
	r := stats.Report{
		EngineName:      "DCWEngine",
		NumKeys:         10,
		InsertNanosPerK: 123.4,
		SearchNanosPerK: 56.7,
		NumOK:           10,
		ShowStat:        "DCWEngine stat.\nnum slots:   17\n",
		GeneratedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	md := r.Markdown()
	require.Contains(t, md, "## DCWEngine benchmark")
	require.Contains(t, md, "insert: 123.40 ns/key")
	require.Contains(t, md, "search: 56.70 ns/key")
	require.Contains(t, md, "DCWEngine stat.")
}

func TestReport_YAML(t *testing.T) {
	r := stats.Report{EngineName: "PREngine", NumKeys: 5, ShowStat: "stat\n"}

	y, err := r.YAML()
	require.NoError(t, err)
	require.Contains(t, y, "engine: PREngine")
	require.Contains(t, y, "num_keys: 5")
}

// TestReport_YAMLRoundTrip checks that a report survives a YAML
// marshal/unmarshal cycle unchanged, using cmp.Diff so a mismatch points
// straight at the differing field instead of an opaque equality failure.
func TestReport_YAMLRoundTrip(t *testing.T) {
	want := stats.Report{
		EngineName:      "PREngine",
		NumKeys:         42,
		InsertNanosPerK: 99.5,
		SearchNanosPerK: 12.25,
		NumOK:           40,
		NumNG:           2,
		CPUSeconds:      0.031,
		ShowStat:        "PREngine stat.\nnum auxs:    3\n",
		GeneratedAt:     time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}

	body, err := want.YAML()
	require.NoError(t, err)

	var got stats.Report
	require.NoError(t, yaml.Unmarshal([]byte(body), &got))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch after YAML round-trip (-want +got):\n%s", diff)
	}
}

func TestReport_WriteMarkdown(t *testing.T) {
	r := stats.Report{EngineName: "DCWEngine", ShowStat: "stat\n"}

	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, r.WriteMarkdown(path))
}

func TestStopWatch(t *testing.T) {
	sw := stats.NewStopWatch()
	time.Sleep(time.Millisecond)
	require.Greater(t, sw.Micros(), 0.0)
}
