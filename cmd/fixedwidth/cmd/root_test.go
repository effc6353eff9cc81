package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	requestLayout = "testdata/request.yaml"
	requestRecord = "<DFG&   한글0000000381          20240123141120"
	requestJSON   = `{"string": "<DFG&", "hangul": "한글", "number": 381, "timestamp": "2024-01-23T14:11:20Z"}`
)

// run executes the command line args with stdin and returns what was
// written to stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEncodeCommand(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, _, err := run(t, requestJSON, "encode", "--layout", requestLayout)
		require.NoError(t, err)
		assert.Equal(t, requestRecord+"\n", out)
	})

	t.Run("verbose", func(t *testing.T) {
		_, stderr, err := run(t, requestJSON, "encode", "-v", "-l", requestLayout)
		require.NoError(t, err)
		assert.Contains(t, stderr, "Formatted")
	})

	t.Run("overflow", func(t *testing.T) {
		_, _, err := run(t, `{"string": "much too long", "hangul": "", "number": 1, "timestamp": ""}`, "encode", "--layout", requestLayout)
		assert.Error(t, err)
	})

	t.Run("missing field", func(t *testing.T) {
		_, _, err := run(t, `{"string": "x"}`, "encode", "--layout", requestLayout)
		assert.Error(t, err)
	})

	t.Run("not an object", func(t *testing.T) {
		_, _, err := run(t, `[1, 2]`, "encode", "--layout", requestLayout)
		assert.Error(t, err)
	})

	t.Run("float precision", func(t *testing.T) {
		for input, want := range map[string]string{
			`{"sku": "A1", "price": 3, "qty": 2}`:        "A1        3.00 0002\n",
			`{"sku": "A1", "price": 3.5, "qty": 2}`:      "A1        3.50 0002\n",
			`{"sku": "A1", "price": "12.346", "qty": 2}`: "A1       12.35 0002\n",
		} {
			out, _, err := run(t, input, "encode", "--layout", "testdata/price.yaml")
			require.NoError(t, err, input)
			assert.Equal(t, want, out, input)
		}
	})

	t.Run("fractional int", func(t *testing.T) {
		_, _, err := run(t, `{"sku": "A1", "price": 3, "qty": 1.5}`, "encode", "--layout", "testdata/price.yaml")
		assert.Error(t, err)
	})

	t.Run("no layout", func(t *testing.T) {
		_, _, err := run(t, requestJSON, "encode")
		assert.Error(t, err)
	})
}

func TestDecodeCommand(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		out, _, err := run(t, "", "decode", "--layout", requestLayout, "testdata/request.dat")
		require.NoError(t, err)
		assert.JSONEq(t, requestJSON, out)
	})

	t.Run("stdin", func(t *testing.T) {
		out, _, err := run(t, requestRecord, "decode", "--layout", requestLayout, "-")
		require.NoError(t, err)
		assert.JSONEq(t, requestJSON, out)
	})

	t.Run("short record", func(t *testing.T) {
		_, _, err := run(t, requestRecord[:20]+"\n", "decode", "--layout", requestLayout)
		assert.Error(t, err)
	})

	t.Run("allow short", func(t *testing.T) {
		out, _, err := run(t, "<DFG&\n", "decode", "--allow-short", "--layout", requestLayout)
		require.NoError(t, err)
		assert.JSONEq(t, `{"string": "<DFG&", "hangul": "", "number": 0, "timestamp": "0001-01-01T00:00:00Z"}`, out)
	})

	t.Run("bad number", func(t *testing.T) {
		record := strings.Replace(requestRecord, "0000000381", "00000003X1", 1)
		_, _, err := run(t, record, "decode", "--layout", requestLayout)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "decode", "--layout", requestLayout, "testdata/missing.dat")
		assert.Error(t, err)
	})
}

func TestDescribeCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, _, err := run(t, "", "describe", "--layout", requestLayout)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 8)
		assert.Equal(t, "some_request", lines[0])
		assert.Equal(t, []string{"NAME", "OFFSET", "LENGTH", "JUSTIFY", "FILL", "TYPE"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"number", "14", "10", "right", `"0"`, "int"}, strings.Fields(lines[4]))
		assert.Equal(t, []string{"timestamp", "34", "14", "left", `"`, `"`, "time"}, strings.Fields(lines[6]))
		assert.Equal(t, "total length: 48", lines[7])
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := run(t, "", "describe", "--layout", requestLayout, "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "name: some_request")
		assert.Contains(t, out, "layout: \"20060102150405\"")
		assert.NotContains(t, out, "internal_note")
	})

	t.Run("padding offsets", func(t *testing.T) {
		out, _, err := run(t, "", "describe", "--layout", "testdata/price.yaml")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 8)
		var offsets []string
		for _, line := range lines[2:7] {
			offsets = append(offsets, strings.Fields(line)[1])
		}
		assert.Equal(t, []string{"0", "4", "6", "14", "15"}, offsets)
		assert.Equal(t, "total length: 19", lines[7])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "", "describe", "--layout", requestLayout, "--format", "xml")
		assert.Error(t, err)
	})
}
