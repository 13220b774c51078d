package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/weierstrass"
	"github.com/njchilds90/weierstrass/internal/store"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("EDITOR", "")
	restore := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = restore })
	return &cli{t: t, dir: dir}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) writeFile(name, body string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func (c *cli) history() []store.Record {
	c.t.Helper()
	out, err := c.run("history", "--json", "--limit", "0")
	require.NoError(c.t, err)
	var recs []store.Record
	require.NoError(c.t, json.Unmarshal([]byte(out), &recs))
	return recs
}

// ============================================================
// analyze
// ============================================================

func TestAnalyze_Report(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("analyze", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Continuous: yes")
	assert.Contains(t, out, "a global minimum 0.000000 at x = 0.000000")
	assert.NotContains(t, out, "Legend:")
}

func TestAnalyze_Discontinuous(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("analyze", "x**2 + 10*heaviside(x - 2)", "0", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "the theorem does not apply")

	recs := c.history()
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Continuous)
}

func TestAnalyze_Errors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("analyze", "x + * 2", "0", "1")
	var pe *weierstrass.ParseError
	assert.True(t, errors.As(err, &pe))

	_, err = c.run("analyze", "x", "1", "0")
	assert.ErrorContains(t, err, "need A < B")

	_, err = c.run("analyze", "x", "0", "one")
	assert.Error(t, err)

	_, err = c.run("analyze", "x", "0")
	assert.Error(t, err)

	_, err = c.run("analyze", "--scan-samples=1", "x", "0", "1")
	assert.ErrorContains(t, err, "--scan-samples")
}

func TestAnalyze_JSON(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("analyze", "--json", "x**3 - 6*x**2 + 9*x + 2", "0", "4")
	require.NoError(t, err)

	var r weierstrass.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, weierstrass.Point{X: 0, Y: 2}, r.GlobalMin)
	require.Len(t, r.CriticalPoints, 2)
	assert.Equal(t, weierstrass.LocalMax, r.CriticalPoints[0].Kind)
}

func TestAnalyze_BoundExpressions(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("analyze", "--json", "sin(x)", "0", "2*pi")
	require.NoError(t, err)
	var r weierstrass.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.InDelta(t, 6.283185307179586, r.B, 1e-15)
}

func TestAnalyze_UsesStoredResult(t *testing.T) {
	c := newCLI(t)
	first, err := c.run("analyze", "x**2", "-1", "1")
	require.NoError(t, err)
	second, err := c.run("analyze", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, c.history(), 1)

	_, err = c.run("analyze", "--fresh", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Len(t, c.history(), 2)

	// Different options give a different key.
	_, err = c.run("analyze", "--scan-samples=50", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Len(t, c.history(), 3)
}

func TestAnalyze_NoStore(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("analyze", "--store=false", "x", "0", "1")
	require.NoError(t, err)
	assert.Empty(t, c.history())

	_, err = c.run("history", "--store=false")
	assert.Error(t, err)
}

func TestAnalyze_ConfigAndFlags(t *testing.T) {
	c := newCLI(t)
	cfg := c.writeFile("config/weierstrass/config.toml", "[report]\nprecision = 2\nlatex = true\n")

	out, err := c.run("analyze", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Interval: [-1.00, 1.00]")
	assert.Contains(t, out, "LaTeX")

	out, err = c.run("analyze", "--precision=3", "--latex=false", "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Interval: [-1.000, 1.000]")
	assert.NotContains(t, out, "LaTeX")

	_ = c.writeFile("bad.toml", "[report]\nprecison = 2\n")
	_, err = c.run("analyze", "--config="+filepath.Join(c.dir, "bad.toml"), "x", "0", "1")
	assert.ErrorContains(t, err, "failed to load config")
	assert.FileExists(t, cfg)
}

func TestAnalyze_PlotsAndPNG(t *testing.T) {
	c := newCLI(t)
	pngDir := filepath.Join(c.dir, "png")
	out, err := c.run("analyze", "--plot", "--plot-width=30", "--plot-height=5", "--png-dir="+pngDir, "x**2", "-1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Legend:")

	entries, err := os.ReadDir(pngDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

// ============================================================
// demo, batch, history, config
// ============================================================

func TestDemo(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("demo")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Example 1: f(x) = x**3 - 6*x**2 + 9*x + 2 on [0, 4] ===")
	assert.Contains(t, out, "=== Example 3")
	assert.Contains(t, out, "the theorem does not apply")

	recs := c.history()
	require.Len(t, recs, 3)
	assert.Equal(t, recs[0].RunID, recs[2].RunID)
}

func TestBatch(t *testing.T) {
	c := newCLI(t)
	jobs := c.writeFile("jobs.txt", `# demo
x**2, -1, 1
floor(x), 0, 3
sin(, 0, 1
`)
	out, err := c.run("batch", jobs)
	assert.ErrorContains(t, err, "1 of 3 jobs")
	assert.Contains(t, out, "  1  f(x) = x^2 on [-1, 1]: min 0 at x=0")
	assert.Contains(t, out, "  2  ")
	assert.Contains(t, out, "does not apply")
	assert.Contains(t, out, "cannot parse")

	recs := c.history()
	assert.Len(t, recs, 2)
}

func TestBatch_JSON(t *testing.T) {
	c := newCLI(t)
	jobs := c.writeFile("jobs.txt", "x**2, -1, 1\n5, 0, 1\n")
	out, err := c.run("batch", "--json", jobs)
	require.NoError(t, err)

	var lines []struct {
		Formula string                      `json:"formula"`
		Result  *weierstrass.AnalysisResult `json:"result"`
		Error   string                      `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 2)
	assert.Equal(t, "5", lines[1].Formula)
	require.NotNil(t, lines[1].Result)
	assert.Equal(t, 5.0, lines[1].Result.GlobalMax.Y)
	assert.Empty(t, lines[0].Error)
}

func TestHistory_Text(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "no analyses recorded yet")

	_, err = c.run("analyze", "x", "0", "1")
	require.NoError(t, err)
	out, err = c.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "interval")
	assert.Contains(t, out, "[0.000000, 1.000000]")

	_, err = c.run("history", "--run", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid --run")
}

func TestConfigCmd_WritesTemplate(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "config", "weierstrass", "config.toml")
	out, err := c.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[analysis]")

	// A broken file can still be opened.
	require.NoError(t, os.WriteFile(path, []byte("[broken"), 0o644))
	_, err = c.run("config")
	assert.NoError(t, err)
}
