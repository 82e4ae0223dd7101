package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/agent_boxplot_go/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger(bool) (*zap.Logger, error) { return zap.NewNop(), nil }

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(nopLogger)
	out := new(bytes.Buffer)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	err := cmd.Execute()
	return out.String(), err
}

func writeResults(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_SavesPlotNextToInput(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "1761519372_Secondary_Cases.csv",
		"0,1,2,1,0,3,1,0,2,1\n2,2,1,4,0,1,1,3,2,0\n1,1,1,1,2,2,2,0,0,5\n")

	out, err := runCmd(t, input)
	require.NoError(t, err)

	want := filepath.Join(dir, "1761519372_Secondary_Cases.png")
	assert.Equal(t, "Plot saved: "+want+"\n", out)

	f, err := os.Open(want)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.DecodeConfig(f)
	assert.NoError(t, err)
}

func TestRootCmd_SingleAgent(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "single.csv", "4,8,15,16,23,42,4,8,15,16\n")

	_, err := runCmd(t, input)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "single.png"))
}

func TestRootCmd_OutputAndReportFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "cases.csv", "1,2,3\n3,4,5\n")
	output := filepath.Join(dir, "custom.png")
	pdfPath := filepath.Join(dir, "summary.pdf")

	out, err := runCmd(t, input, "-o", output, "-m", "Human Hazard @ Sickness", "--report", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Plot saved: "+output)
	assert.Contains(t, out, "Report saved: "+pdfPath)
	assert.NoFileExists(t, filepath.Join(dir, "cases.png"))

	pdfBytes, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))
}

func TestRootCmd_FailuresWriteNoImage(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing"},
		{name: "empty", content: ptr("")},
		{name: "ragged", content: ptr("1,2,3\n4,5\n")},
		{name: "non numeric", content: ptr("1,x\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "results.csv")
			if tt.content != nil {
				writeResults(t, dir, "results.csv", *tt.content)
			}

			out, err := runCmd(t, input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, parser.ErrDataFormat), "got %v", err)
			assert.Empty(t, out)
			assert.NoFileExists(t, filepath.Join(dir, "results.png"))
		})
	}
}

func TestRootCmd_FailureKeepsExistingImage(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "results.csv", "1,2\n3\n")
	previous := writeResults(t, dir, "results.png", "previous image")

	_, err := runCmd(t, input)
	require.Error(t, err)

	got, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Equal(t, "previous image", string(got))
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	_, err := runCmd(t, "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestExecute_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)

	code := execute([]string{filepath.Join(dir, "missing.csv")}, stdout, stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: "))
	assert.Equal(t, 1, strings.Count(stderr.String(), "\n"))

	input := writeResults(t, dir, "ok.csv", "1,2,3\n")
	stdout.Reset()
	stderr.Reset()
	code = execute([]string{input}, stdout, stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Plot saved: "+filepath.Join(dir, "ok.png")+"\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestNewApp_DefaultsDerivedFromInput(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "1761519225_Human_Hazard___Sickness.csv", "0.1,0.2,0.3\n")
	out := new(bytes.Buffer)

	saved, err := NewApp(zap.NewNop(), out).Run(Options{InputPath: input})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1761519225_Human_Hazard___Sickness.png"), saved)
}

func ptr(s string) *string { return &s }

func TestRootCmd_ReportFailureWritesNoImage(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "cases.csv", "1,2,3\n3,4,5\n")

	out, err := runCmd(t, input, "--report", filepath.Join(dir, "missing", "summary.pdf"))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "cases.png"))
}

func TestRootCmd_RefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	input := writeResults(t, dir, "cases.csv", "1,2,3\n")

	_, err := runCmd(t, input, "-o", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would overwrite the input file")

	got, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3\n", string(got))

	pngInput := writeResults(t, dir, "cases.png", "1,2,3\n")
	_, err = runCmd(t, pngInput)
	require.Error(t, err)
	got, err = os.ReadFile(pngInput)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3\n", string(got))
}
