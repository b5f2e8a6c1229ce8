package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// minColumns is the number of fixed VCF body columns (CHROM..INFO).
const minColumns = 8

// Parser reads variants from a VCF file.
type Parser struct {
	reader      *bufio.Reader
	closer      io.Closer
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line
	pending     string   // first data line, read while scanning the header
	hasPending  bool
}

// NewParser creates a new VCF parser for the given file.
// Supports plain, gzipped (.vcf.gz) and bzip2 (.vcf.bz2) files.
func NewParser(path string) (*Parser, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		reader: bufio.NewReader(rc),
		closer: rc,
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader of uncompressed text.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// readLine returns the next line without its terminator.
// io.EOF is returned only when no data is left.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads and stores VCF header lines. A missing #CHROM line is
// tolerated; the first data line is kept for Next.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read header: %w", err)
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			// Extract sample names from columns after FORMAT (index 9+)
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				p.sampleNames = fields[9:]
			}
			return nil
		}

		if strings.HasPrefix(line, "#") {
			p.header = append(p.header, line)
			continue
		}

		p.pending = line
		p.hasPending = true
		return nil
	}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants. Malformed lines are
// reported as *ParseError and consumed, so the caller may continue.
func (p *Parser) Next() (*Variant, error) {
	for {
		var line string
		if p.hasPending {
			line, p.hasPending = p.pending, false
		} else {
			var err error
			line, err = p.readLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, nil
				}
				return nil, fmt.Errorf("read variant line: %w", err)
			}
		}

		// Skip empty lines and stray comment lines
		if line == "" || line[0] == '#' {
			continue
		}

		return p.parseLine(line)
	}
}

// All returns the remaining variants as a single-use sequence. Iteration
// stops after the first error that is not a *ParseError.
func (p *Parser) All() iter.Seq2[*Variant, error] {
	return func(yield func(*Variant, error) bool) {
		for {
			v, err := p.Next()
			if err != nil {
				var pe *ParseError
				if !yield(nil, err) || !errors.As(err, &pe) {
					return
				}
				continue
			}
			if v == nil {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minColumns {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minColumns, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	v := &Variant{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Filter: fields[6],
		Info:   parseInfo(fields[7]),
		Raw:    line,
	}

	if fields[5] != "." {
		v.Qual, v.HasQual = parseNumber(fields[5])
	}

	return v, nil
}

// parseInfo parses the INFO field into a map.
func parseInfo(info string) map[string]interface{} {
	result := make(map[string]interface{})
	if info == "." || info == "" {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			// Flag-type INFO field
			result[parts[0]] = true
		}
	}

	return result
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
