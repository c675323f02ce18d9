// Package csvfield splits a single line of comma-separated text into fields.
//
// The accepted dialect is close to RFC 4180 with two differences: quoted
// fields may not span lines, and a backslash inside quotes introduces one of
// the escapes \n, \r or \t.
package csvfield

import (
	"errors"
	"io"
	"iter"
	"strings"
)

// ErrInvalidField is returned for any malformed field. It carries no
// position; callers that need one wrap it themselves.
var ErrInvalidField = errors.New("csvfield: invalid field format")

type state int

const (
	statePending  state = iota // at least one more field remains
	stateFinished              // the terminal field was produced
	stateFailed                // a field failed to decode
)

// Parser yields the fields of one line, one at a time.
type Parser struct {
	line  string
	pos   int
	state state
}

// NewParser returns a parser positioned at the first field of line.
func NewParser(line string) *Parser {
	return &Parser{line: line}
}

// Next returns the next decoded field. It returns io.EOF once the last field
// of the line has been returned, and ErrInvalidField for a malformed field,
// after which every call returns io.EOF.
func (p *Parser) Next() (string, error) {
	switch p.state {
	case stateFailed:
		return "", io.EOF
	case stateFinished:
		if p.pos < len(p.line) {
			// Finished with input left over: the scanner lost its place.
			p.state = stateFailed
			return "", ErrInvalidField
		}
		return "", io.EOF
	}

	if p.pos >= len(p.line) {
		// "a," and "" both end with an empty field.
		p.state = stateFinished
		return "", nil
	}

	var (
		field string
		err   error
	)
	if p.line[p.pos] == '"' {
		field, err = p.quoted()
	} else {
		field, err = p.raw()
	}
	if err != nil {
		p.state = stateFailed
		return "", err
	}
	return field, nil
}

// Fields ranges over the remaining fields. Iteration stops after the first
// error.
func (p *Parser) Fields() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			field, err := p.Next()
			if err == io.EOF {
				return
			}
			if !yield(field, err) || err != nil {
				return
			}
		}
	}
}

// Split decodes every field of line.
func Split(line string) ([]string, error) {
	var fields []string
	for field, err := range NewParser(line).Fields() {
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// raw consumes an unquoted field. The result is a slice of the input.
func (p *Parser) raw() (string, error) {
	start := p.pos
	for ; p.pos < len(p.line); p.pos++ {
		switch p.line[p.pos] {
		case ',':
			field := p.line[start:p.pos]
			p.pos++
			return field, nil
		case '\r', '\n':
			return "", ErrInvalidField
		}
	}
	p.state = stateFinished
	return p.line[start:], nil
}

// quoted consumes a field starting at an opening quote.
func (p *Parser) quoted() (string, error) {
	p.pos++ // opening quote

	var b strings.Builder
	for {
		if p.pos >= len(p.line) {
			return "", ErrInvalidField
		}
		c := p.line[p.pos]
		p.pos++

		switch c {
		case '\r', '\n':
			return "", ErrInvalidField
		case '"':
			if p.pos >= len(p.line) {
				p.state = stateFinished
				return b.String(), nil
			}
			switch p.line[p.pos] {
			case '"':
				p.pos++
				b.WriteByte('"')
			case ',':
				p.pos++
				return b.String(), nil
			default:
				return "", ErrInvalidField
			}
		case '\\':
			if p.pos >= len(p.line) {
				return "", ErrInvalidField
			}
			esc := p.line[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", ErrInvalidField
			}
		default:
			b.WriteByte(c)
		}
	}
}
