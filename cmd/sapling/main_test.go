package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sapling/dataset"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		location string
		expected locationKind
	}{
		{"", stdioLocation},
		{"-", stdioLocation},
		{"train.txt", textLocation},
		{"train", textLocation},
		{"train.csv", csvLocation},
		{"train.db", sqlite3Location},
		{"postgres://user:pw@localhost/sapling", postgresLocation},
		{"postgresql://localhost/sapling", postgresLocation},
		{"mongodb://localhost:27017/sapling", mongoLocation},
		{"mongodb+srv://cluster.example.com/sapling", mongoLocation},
		{"redis://localhost:6379/0#weather", redisLocation},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, kindOf(tc.location), tc.location)
	}
}

func TestParseSample(t *testing.T) {
	row, err := parseSample("1,0, yes  n", 4)
	require.NoError(t, err)
	assert.Equal(t, dataset.Row{true, false, true, false}, row)

	_, err = parseSample("1,0", 3)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)

	_, err = parseSample("1,maybe", 2)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := cliParser()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestGrowTestAndShow(t *testing.T) {
	dir := t.TempDir()
	training := filepath.Join(dir, "training.txt")
	treeFile := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(training, []byte("1 0 2\n0 1 1\n1 1 2\n0 0 1\n"), 0o644))

	run(t, "tree", "grow", "-i", training, "-o", treeFile, "-w", "2")

	out := run(t, "tree", "-t", treeFile, "--format", "plain")
	assert.Equal(t, "0\n\tclass=1\n\tclass=2\n", out)

	out = run(t, "tree", "test", "-i", training, "-t", treeFile)
	assert.Contains(t, out, "1.000000 success rate")

	out = run(t, "tree", "predict", "-t", treeFile, "-s", "1,0")
	assert.Equal(t, "Predicted class is 2\n", out)
}

func TestSetConversion(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "set.txt")
	output := filepath.Join(dir, "set.csv")
	require.NoError(t, os.WriteFile(input, []byte("1 0 2\n0 1 1\n"), 0o644))

	run(t, "set", "-i", input, "-o", output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "0,1,label\n1,0,2\n0,1,1\n", string(data))
}

func TestSetSplit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "set.txt")
	output := filepath.Join(dir, "training.txt")
	split := filepath.Join(dir, "testing.txt")
	require.NoError(t, os.WriteFile(input, []byte("1 0 2\n0 1 1\n1 1 2\n0 0 1\n"), 0o644))

	run(t, "set", "split", "-i", input, "-o", output, "-s", split, "-p", "100", "--seed", "42")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Empty(t, data)
	data, err = os.ReadFile(split)
	require.NoError(t, err)
	assert.Equal(t, "1 0 2\n0 1 1\n1 1 2\n0 0 1\n", string(data))
}

func TestTestCmdValidate(t *testing.T) {
	config := &testCmdConfig{treeCmdConfig: &treeCmdConfig{rootCmdConfig: &rootCmdConfig{}}}
	assert.EqualError(t, config.Validate(), "required tree flag was not set")
	config.treeInput = "tree.json"
	assert.NoError(t, config.Validate())
}
