package vcf

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Sample(t *testing.T) {
	parser, err := NewParser(filepath.Join("testdata", "sample.vcf"))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}

	if v.Chrom != "1" || v.Pos != 100 || v.ID != "rs1" || v.Ref != "A" || v.Alt != "T" {
		t.Errorf("Unexpected variant: %+v", v)
	}
	if !v.HasQual || v.Qual != 50.5 {
		t.Errorf("Expected QUAL 50.5, got %v (set=%v)", v.Qual, v.HasQual)
	}
	if qd, ok := v.InfoFloat("QD"); !ok || qd != 3.0 {
		t.Errorf("Expected QD 3.0, got %v", qd)
	}

	v, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, v.HasQual, "QUAL '.' should be absent")
	assert.Equal(t, true, v.Info["DB"], "entries without = are flags")
	assert.Equal(t, ".", v.ID)

	// Multi-allelic ALT stays a single token
	v, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "G,A", v.Alt)
	assert.Empty(t, v.Info)

	v, err = parser.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParser_Header(t *testing.T) {
	parser, err := NewParser(filepath.Join("testdata", "sample.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	header := parser.Header()
	require.Len(t, header, 3)
	assert.Equal(t, "##fileformat=VCFv4.2", header[0])
	assert.True(t, strings.HasPrefix(header[2], "#CHROM"))
	assert.Nil(t, parser.SampleNames())
}

func TestParser_NoChromHeader(t *testing.T) {
	input := "##fileformat=VCFv4.2\n1\t100\t.\tA\tT\t.\tPASS\tQD=1\n"
	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	v, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(100), v.Pos)
	assert.Equal(t, 2, parser.LineNumber())
}

func TestParser_MalformedLinesAreRecoverable(t *testing.T) {
	parser, err := NewParser(filepath.Join("testdata", "malformed.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	var positions []int64
	var lines []int
	for {
		v, err := parser.Next()
		if err != nil {
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "unexpected error: %v", err)
			lines = append(lines, pe.Line)
			continue
		}
		if v == nil {
			break
		}
		positions = append(positions, v.Pos)
	}

	assert.Equal(t, []int64{100, 400}, positions)
	assert.Equal(t, []int{4, 5, 6}, lines)
}

func TestParser_All(t *testing.T) {
	parser, err := NewParser(filepath.Join("testdata", "malformed.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	var good, bad int
	for v, err := range parser.All() {
		if err != nil {
			bad++
			continue
		}
		assert.NotNil(t, v)
		good++
	}
	assert.Equal(t, 2, good)
	assert.Equal(t, 3, bad)
}

func TestParser_Gzip(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample.vcf"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	// No .gz suffix: detection relies on the magic bytes.
	path := filepath.Join(t.TempDir(), "sample.vcf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	count := 0
	for v, err := range parser.All() {
		require.NoError(t, err)
		require.NotNil(t, v)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestParser_TruncatedGzip(t *testing.T) {
	var body strings.Builder
	body.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
	for i := 1; i <= 2000; i++ {
		body.WriteString("1\t")
		body.WriteString(strings.Repeat("1", 1+i%7))
		body.WriteString("\t.\tA\tT\t10\tPASS\tQD=1.0\n")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := buf.Bytes()
	path := filepath.Join(t.TempDir(), "truncated.vcf.gz")
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

	parser, err := NewParser(path)
	if err != nil {
		var de *DecompressError
		require.True(t, errors.As(err, &de), "unexpected error: %v", err)
		return
	}
	defer parser.Close()

	var fatal error
	for _, err := range parser.All() {
		var pe *ParseError
		if err != nil && !errors.As(err, &pe) {
			fatal = err
		}
	}
	require.Error(t, fatal)
	var de *DecompressError
	assert.True(t, errors.As(fatal, &de), "expected DecompressError, got %v", fatal)
}

func TestParser_Bzip2(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample.vcf.bz2"))
	require.NoError(t, err)

	// Detected by extension and, without it, by the BZh magic.
	plain := filepath.Join(t.TempDir(), "sample")
	require.NoError(t, os.WriteFile(plain, raw, 0o644))

	for _, path := range []string{filepath.Join("testdata", "sample.vcf.bz2"), plain} {
		parser, err := NewParser(path)
		require.NoError(t, err)

		var positions []int64
		for v, err := range parser.All() {
			require.NoError(t, err)
			positions = append(positions, v.Pos)
		}
		require.NoError(t, parser.Close())
		assert.Equal(t, []int64{100, 200, 300}, positions, path)
	}
}

func TestParser_TruncatedBzip2(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample.vcf.bz2"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "truncated.vcf.bz2")
	require.NoError(t, os.WriteFile(path, raw[:len(raw)/2], 0o644))

	var de *DecompressError
	parser, err := NewParser(path)
	if err != nil {
		require.True(t, errors.As(err, &de), "unexpected error: %v", err)
		return
	}
	defer parser.Close()

	var fatal error
	for _, err := range parser.All() {
		var pe *ParseError
		if err != nil && !errors.As(err, &pe) {
			fatal = err
		}
	}
	require.Error(t, fatal)
	assert.True(t, errors.As(fatal, &de), "expected DecompressError, got %v", fatal)
}

func TestParser_Qual(t *testing.T) {
	tests := []struct {
		qual    string
		want    float64
		wantSet bool
	}{
		{"50.5", 50.5, true},
		{"0", 0, true},
		{".", 0, false},
		{"abc", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.qual, func(t *testing.T) {
			parser, err := NewParserFromReader(strings.NewReader("1\t100\t.\tA\tT\t" + tt.qual + "\tPASS\t.\n"))
			require.NoError(t, err)

			v, err := parser.Next()
			require.NoError(t, err)
			require.NotNil(t, v)
			assert.Equal(t, tt.wantSet, v.HasQual)
			assert.Equal(t, tt.want, v.Qual)
		})
	}
}

func TestNewParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "nope.vcf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name string
		info string
		want map[string]interface{}
	}{
		{"missing", ".", map[string]interface{}{}},
		{"key values", "DP=10;QD=2.5", map[string]interface{}{"DP": "10", "QD": "2.5"}},
		{"flag", "DB;DP=3", map[string]interface{}{"DB": true, "DP": "3"}},
		{"value with equals", "X=a=b", map[string]interface{}{"X": "a=b"}},
		{"empty entries", "DP=1;;", map[string]interface{}{"DP": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInfo(tt.info))
		})
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "expected at least 8 columns, found 5",
	}

	expected := "vcf parse error at line 42: expected at least 8 columns, found 5"
	if err.Error() != expected {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), expected)
	}
}
