package docview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Content stream operands are float64, pdfName, []byte (string), []any
// (array), bool or nil. Dictionaries only appear as marked-content properties
// and are kept as pdfDict so arity checks still see an operand.
type pdfName string

type pdfDict struct{}

type operation struct {
	Operator string
	Operands []any
}

var errUnbalanced = errors.New("unbalanced delimiter")

// contentLexer splits a page content stream into operations.
type contentLexer struct {
	data []byte
	pos  int
	ops  []any
}

func newContentLexer(data []byte) *contentLexer {
	return &contentLexer{data: data}
}

// Next returns the next operation, or io.EOF at the end of the stream.
// Operands left dangling before EOF are dropped.
func (l *contentLexer) Next() (operation, error) {
	l.ops = l.ops[:0]
	for {
		v, kw, err := l.token()
		if err != nil {
			return operation{}, err
		}
		if kw == "" {
			l.ops = append(l.ops, v)
			continue
		}
		switch kw {
		case "true":
			l.ops = append(l.ops, true)
			continue
		case "false":
			l.ops = append(l.ops, false)
			continue
		case "null":
			l.ops = append(l.ops, nil)
			continue
		case "BI":
			if err := l.skipInlineImage(); err != nil {
				return operation{}, err
			}
			return operation{Operator: "BI"}, nil
		}
		return operation{Operator: kw, Operands: append([]any(nil), l.ops...)}, nil
	}
}

// token reads one operand or keyword. Exactly one of v or kw is set.
func (l *contentLexer) token() (v any, kw string, err error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return nil, "", io.EOF
	}
	c := l.data[l.pos]
	switch {
	case c == '/':
		return l.readName(), "", nil
	case c == '(':
		s, err := l.readString()
		return s, "", err
	case c == '<':
		if l.peek(1) == '<' {
			err := l.skipDict()
			return pdfDict{}, "", err
		}
		s, err := l.readHex()
		return s, "", err
	case c == '[':
		a, err := l.readArray()
		return a, "", err
	case c == ']' || c == ')' || c == '>' || c == '}':
		return nil, "", fmt.Errorf("offset %d: %w %q", l.pos, errUnbalanced, c)
	case c == '{':
		l.pos++
		return l.token()
	case isNumberStart(c):
		return l.readNumber(), "", nil
	}
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++
		return nil, "", fmt.Errorf("offset %d: unexpected byte %q", start, c)
	}
	return nil, string(l.data[start:l.pos]), nil
}

func (l *contentLexer) peek(n int) byte {
	if l.pos+n < len(l.data) {
		return l.data[l.pos+n]
	}
	return 0
}

func (l *contentLexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		if !isSpace(c) {
			return
		}
		l.pos++
	}
}

func (l *contentLexer) readName() pdfName {
	l.pos++
	var b []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpace(c) || isDelim(c) {
			break
		}
		l.pos++
		if c == '#' && l.pos+1 < len(l.data) {
			if v, err := strconv.ParseUint(string(l.data[l.pos:l.pos+2]), 16, 8); err == nil {
				b = append(b, byte(v))
				l.pos += 2
				continue
			}
		}
		b = append(b, c)
	}
	return pdfName(b)
}

func (l *contentLexer) readString() ([]byte, error) {
	start := l.pos
	l.pos++
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out, nil
			}
		case '\\':
			if l.pos >= len(l.data) {
				continue
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && l.pos < len(l.data); i++ {
					d := l.data[l.pos]
					if d < '0' || d > '7' {
						break
					}
					v = v*8 + int(d-'0')
					l.pos++
				}
				out = append(out, byte(v))
			default:
				out = append(out, e)
			}
			continue
		}
		out = append(out, c)
	}
	return nil, fmt.Errorf("offset %d: unterminated string", start)
}

func (l *contentLexer) readHex() ([]byte, error) {
	start := l.pos
	l.pos++
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				v, _ := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
				out[i] = byte(v)
			}
			return out, nil
		}
		if isSpace(c) {
			continue
		}
		if !isHex(c) {
			return nil, fmt.Errorf("offset %d: bad hex digit %q", l.pos-1, c)
		}
		digits = append(digits, c)
	}
	return nil, fmt.Errorf("offset %d: unterminated hex string", start)
}

func (l *contentLexer) readArray() ([]any, error) {
	start := l.pos
	l.pos++
	var arr []any
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("offset %d: unterminated array", start)
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return arr, nil
		}
		v, kw, err := l.token()
		if err != nil {
			return nil, err
		}
		if kw != "" {
			// Keywords inside arrays are only legal as true/false/null.
			switch kw {
			case "true":
				v = true
			case "false":
				v = false
			}
		}
		arr = append(arr, v)
	}
}

func (l *contentLexer) skipDict() error {
	start := l.pos
	depth := 0
	for l.pos < len(l.data) {
		switch {
		case l.data[l.pos] == '(':
			if _, err := l.readString(); err != nil {
				return err
			}
			continue
		case bytes.HasPrefix(l.data[l.pos:], []byte("<<")):
			depth++
			l.pos += 2
			continue
		case bytes.HasPrefix(l.data[l.pos:], []byte(">>")):
			depth--
			l.pos += 2
			if depth == 0 {
				return nil
			}
			continue
		}
		l.pos++
	}
	return fmt.Errorf("offset %d: unterminated dictionary", start)
}

// skipInlineImage moves past BI <dict> ID <data> EI.
func (l *contentLexer) skipInlineImage() error {
	start := l.pos
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'I' && l.data[l.pos+1] == 'D' && (l.pos+2 >= len(l.data) || isSpace(l.data[l.pos+2])) {
			l.pos += 3
			break
		}
		l.pos++
	}
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isSpace(l.data[l.pos-1])) &&
			(l.pos+2 >= len(l.data) || isSpace(l.data[l.pos+2])) {
			l.pos += 2
			return nil
		}
		l.pos++
	}
	return fmt.Errorf("offset %d: unterminated inline image", start)
}

func (l *contentLexer) readNumber() float64 {
	start := l.pos
	l.pos++
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		l.pos++
	}
	f, err := strconv.ParseFloat(string(l.data[start:l.pos]), 64)
	if err != nil {
		return 0
	}
	return f
}

func isSpace(c byte) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isDelim(c byte) bool {
	return bytes.IndexByte([]byte("()<>[]{}/%"), c) >= 0
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
