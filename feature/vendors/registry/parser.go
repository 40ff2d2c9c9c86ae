package registry

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// headerLines is the fixed preamble of the registry text dump.
const headerLines = 4

const base16Marker = "(base 16)"

// Parser turns the upstream registry text dump into a sequence of vendor
// records. It is lazy and single-pass: call Next until it returns io.EOF.
// A *FormatError from Next aborts the whole parse; partial results must be
// discarded by the caller.
type Parser struct {
	sc      *bufio.Scanner
	line    int
	started bool
	pending string
	hasPend bool
}

// NewParser wraps the given registry text stream.
func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Parser{sc: sc}
}

func (p *Parser) read() (string, bool) {
	if p.hasPend {
		p.hasPend = false
		return p.pending, true
	}
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return p.sc.Text(), true
}

func (p *Parser) unread(line string) {
	p.pending = line
	p.hasPend = true
}

// Next returns the next vendor record. It returns io.EOF at the end of the
// stream and a *FormatError if the dump is malformed.
func (p *Parser) Next() (VendorRecord, error) {
	if !p.started {
		p.started = true
		for i := 0; i < headerLines; i++ {
			if _, ok := p.read(); !ok {
				return VendorRecord{}, p.eof()
			}
		}
	}

	// Skip blank separators between blocks.
	var hyphenLine string
	for {
		l, ok := p.read()
		if !ok {
			return VendorRecord{}, p.eof()
		}
		if strings.TrimSpace(l) != "" {
			hyphenLine = l
			break
		}
	}

	hyphenBits, err := p.parseHyphenLine(hyphenLine)
	if err != nil {
		return VendorRecord{}, err
	}

	baseLine, ok := p.read()
	if !ok {
		return VendorRecord{}, &FormatError{Line: p.line, Msg: "missing base-16 line"}
	}
	bits, org, err := p.parseBase16Line(baseLine)
	if err != nil {
		return VendorRecord{}, err
	}
	if bits != hyphenBits {
		return VendorRecord{}, &FormatError{Line: p.line, Msg: "prefix mismatch between hex and base-16 lines"}
	}

	// Indented, non-empty address lines until a blank line or end of stream.
	var addr []string
	for {
		l, ok := p.read()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			break
		}
		if l[0] != ' ' && l[0] != '\t' {
			// Start of the next block; blocks are not required to be
			// separated by a blank line.
			p.unread(l)
			break
		}
		addr = append(addr, trimmed)
	}

	return VendorRecord{
		Prefix:       Prefix(bits << 24),
		Organization: org,
		Address:      strings.Join(addr, "\n"),
	}, nil
}

func (p *Parser) eof() error {
	if err := p.sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

// parseHyphenLine validates lines of the form
//
//	00-22-72   (hex)		American Micro-Fuel Device Corp.
//
// and returns the 24-bit prefix value.
func (p *Parser) parseHyphenLine(line string) (uint64, error) {
	tok := strings.Fields(line)[0]
	parts := strings.Split(tok, "-")
	if len(parts) != 3 {
		return 0, &FormatError{Line: p.line, Msg: "expected hyphenated prefix, got " + strconv.Quote(tok)}
	}
	bits, err := strconv.ParseUint(strings.Join(parts, ""), 16, 32)
	if err != nil || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, &FormatError{Line: p.line, Msg: "malformed hex prefix " + strconv.Quote(tok)}
	}
	return bits, nil
}

// parseBase16Line parses lines of the form
//
//	002272     (base 16)		American Micro-Fuel Device Corp.
//
// returning the 24-bit prefix value and the organization name that follows
// the base-16 marker.
func (p *Parser) parseBase16Line(line string) (uint64, string, error) {
	idx := strings.Index(line, base16Marker)
	if idx < 0 {
		return 0, "", &FormatError{Line: p.line, Msg: "missing base-16 marker"}
	}
	tok := strings.TrimSpace(line[:idx])
	if len(tok) != 6 {
		return 0, "", &FormatError{Line: p.line, Msg: "expected 6 hex digits, got " + strconv.Quote(tok)}
	}
	bits, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, "", &FormatError{Line: p.line, Msg: "malformed hex prefix " + strconv.Quote(tok)}
	}
	return bits, strings.TrimSpace(line[idx+len(base16Marker):]), nil
}
