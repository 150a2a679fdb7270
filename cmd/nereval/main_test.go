package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-nereval/report"
)

const (
	trueJSONL = `["O","B-PER","I-PER","O","O","O","B-ORG","I-ORG"]` + "\n"
	predJSONL = `["O","B-PER","I-PER","O","O","O","B-LOC","I-LOC"]` + "\n"
)

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	truePath := filepath.Join(dir, "true.jsonl")
	predPath := filepath.Join(dir, "pred.jsonl")
	require.NoError(t, os.WriteFile(truePath, []byte(trueJSONL), 0o644))
	require.NoError(t, os.WriteFile(predPath, []byte(predJSONL), 0o644))
	return truePath, predPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := buildRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildRootCmdIncludesSubcommands(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"eval", "sweep", "convert", "version"} {
		assert.True(t, names[name], "expected subcommand %q to be registered", name)
	}
}

func TestEval_Text(t *testing.T) {
	truePath, predPath := writeInputs(t)

	out, err := execute(t, "eval", truePath, predPath, "--tags", "PER,ORG,LOC")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, []string{"strict", "1", "1", "0", "0", "0", "0.50", "0.50", "0.50"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"exact", "2", "0", "0", "0", "0", "1.00", "1.00", "1.00"}, strings.Fields(lines[5]))
}

func TestEval_ByTagWithIndices(t *testing.T) {
	truePath, predPath := writeInputs(t)

	out, err := execute(t, "eval", truePath, predPath, "--tags", "PER,ORG,LOC",
		"--by-tag", "--scenario", "ent_type", "--indices")
	require.NoError(t, err)

	assert.Contains(t, out, "LOC ")
	assert.Contains(t, out, "Entity Type: ORG\n  Error Schema: 'ent_type'\n")
	assert.Contains(t, out, "(ORG) Missed:\n      - Instance 0, Entity 0: Label=ORG, Start=6, End=7\n")
}

func TestEval_CSVFile(t *testing.T) {
	truePath, predPath := writeInputs(t)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "eval", truePath, predPath, "--tags", "PER,ORG,LOC",
		"--format", "csv", "--digits", "1", "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Strategy/Entity,Correct,Incorrect,Partial,Missed,Spurious,Precision,Recall,F1-Score", lines[0])
	assert.Equal(t, "partial,2,0,0,0,0,1.0,1.0,1.0", lines[3])
}

func TestEval_JSON(t *testing.T) {
	truePath, predPath := writeInputs(t)

	out, err := execute(t, "eval", truePath, predPath, "--tags", "PER,ORG,LOC",
		"--format", "json", "--by-tag", "--pretty")
	require.NoError(t, err)

	var got struct {
		Overall  map[string]map[string]float64            `json:"overall"`
		Entities map[string]map[string]map[string]float64 `json:"entities"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 0.5, got.Overall["strict"]["f1"], 1e-9)
	assert.InDelta(t, 1, got.Entities["LOC"]["strict"]["spurious"], 1e-9)
}

func TestEval_Proto(t *testing.T) {
	truePath, predPath := writeInputs(t)
	outPath := filepath.Join(t.TempDir(), "out.pb")

	_, err := execute(t, "eval", truePath, predPath, "--tags", "PER,ORG,LOC",
		"--format", "proto", "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	st, err := report.UnmarshalBinary(data)
	require.NoError(t, err)
	exact := st.Fields["overall"].GetStructValue().Fields["exact"].GetStructValue()
	assert.InDelta(t, 2, exact.Fields["correct"].GetNumberValue(), 1e-9)
}

func TestEval_ConfigFile(t *testing.T) {
	truePath, predPath := writeInputs(t)
	cfgPath := filepath.Join(t.TempDir(), "nereval.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tags: [PER]\nreport:\n  format: csv\n"), 0o644))

	out, err := execute(t, "eval", truePath, predPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "strict,1,0,0,0,0,1.00,1.00,1.00")

	// Flags win over the file.
	out, err = execute(t, "eval", truePath, predPath, "--config", cfgPath, "--format", "text")
	require.NoError(t, err)
	assert.NotContains(t, out, ",")
}

func TestEval_Errors(t *testing.T) {
	truePath, predPath := writeInputs(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing tags", []string{"eval", truePath, predPath}, "no tags"},
		{"bad scenario", []string{"eval", truePath, predPath, "-t", "PER", "--scenario", "loose"}, "unknown scenario"},
		{"bad overlap", []string{"eval", truePath, predPath, "-t", "PER", "--min-overlap", "0"}, "min_overlap_percent"},
		{"missing file", []string{"eval", truePath + ".nope", predPath, "-t", "PER"}, "read file"},
		{"wrong arg count", []string{"eval", truePath}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSweep(t *testing.T) {
	truePath, predPath := writeInputs(t)

	out, err := execute(t, "sweep", truePath, predPath, "--tags", "PER,ORG,LOC",
		"--strategy", "partial", "--sweep-min", "1", "--sweep-max", "21", "--sweep-step", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "strategy=partial")
	assert.Contains(t, out, "MinOvl")
	assert.Contains(t, out, "21.0")
	assert.Contains(t, out, "Optimal: 1.0 (Weighted: 1.00)")
}

func TestConvert(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.conll")
	require.NoError(t, os.WriteFile(input, []byte("John\tB-PER\nSmith\tI-PER\n\nParis\tB-LOC\n"), 0o644))

	out, err := execute(t, "convert", input, "--loader", "conll")
	require.NoError(t, err)
	assert.Equal(t,
		`[{"label":"PER","start":0,"end":1}]`+"\n"+`[{"label":"LOC","start":0,"end":0}]`+"\n",
		out)

	_, err = execute(t, "convert", input, "--loader", "prodigy")
	assert.ErrorContains(t, err, "unknown loader")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nereval dev (commit: none, built: unknown)\n", out)
}
