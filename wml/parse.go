package wml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pehjota/addonsync"
)

// ParseError describes a syntax problem in a WML document.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wml: line %d: %s", e.Line, e.Msg)
}

// ParseTree reads a single [dir] block.
func ParseTree(r io.Reader) (*addonsync.Dir, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	}
	d, err := p.parseBlock("dir")
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return d, nil
}

// ParsePack reads a [removelist] block followed by an [addlist] block.
func ParsePack(r io.Reader) (*addonsync.UpdatePack, error) {
	p, err := newParser(r)
	if err != nil {
		return nil, err
	}
	rm, err := p.parseBlock("removelist")
	if err != nil {
		return nil, err
	}
	add, err := p.parseBlock("addlist")
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &addonsync.UpdatePack{Removelist: rm, Addlist: add}, nil
}

type parser struct {
	data []byte
	pos  int
	line int
}

func newParser(r io.Reader) (*parser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return &parser{data: data, line: 1}, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseBlock(tag string) (*addonsync.Dir, error) {
	p.skipSpace()
	name, closing, err := p.readTag()
	if err != nil {
		return nil, err
	}
	if closing {
		return nil, p.errorf("expected [%s], found [/%s]", tag, name)
	}
	if name != tag {
		return nil, p.errorf("expected [%s], found [%s]", tag, name)
	}
	return p.parseDirBody(tag)
}

// parseDirBody consumes the body of a dir-shaped block up to and including
// its closing tag. Unknown attributes are ignored; unknown tags are not.
func (p *parser) parseDirBody(tag string) (*addonsync.Dir, error) {
	d := &addonsync.Dir{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("missing [/%s]", tag)
		}

		if p.data[p.pos] == '[' {
			name, closing, err := p.readTag()
			if err != nil {
				return nil, err
			}
			switch {
			case closing && name == tag:
				return d, nil
			case closing:
				return nil, p.errorf("mismatched [/%s] inside [%s]", name, tag)
			case name == "file":
				f, err := p.parseFileBody()
				if err != nil {
					return nil, err
				}
				d.Files = append(d.Files, f)
			case name == "dir":
				sub, err := p.parseDirBody("dir")
				if err != nil {
					return nil, err
				}
				d.Dirs = append(d.Dirs, sub)
			default:
				return nil, p.errorf("unknown tag [%s]", name)
			}
			continue
		}

		key, value, err := p.readAttr()
		if err != nil {
			return nil, err
		}
		if key == "name" {
			d.Name = string(value)
		}
	}
}

func (p *parser) parseFileBody() (*addonsync.File, error) {
	f := &addonsync.File{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, p.errorf("missing [/file]")
		}

		if p.data[p.pos] == '[' {
			name, closing, err := p.readTag()
			if err != nil {
				return nil, err
			}
			if closing && name == "file" {
				return f, nil
			}
			if closing {
				return nil, p.errorf("mismatched [/%s] inside [file]", name)
			}
			return nil, p.errorf("unexpected tag [%s] inside [file]", name)
		}

		key, value, err := p.readAttr()
		if err != nil {
			return nil, err
		}
		switch key {
		case "name":
			f.Name = string(value)
		case "contents":
			f.Contents = addonsync.DecodeBinary(value)
		case "hash":
			f.Hash = addonsync.Digest(value)
		}
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\n':
			p.line++
			p.pos++
		case ' ', '\t', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) readTag() (name string, closing bool, err error) {
	if p.pos >= len(p.data) || p.data[p.pos] != '[' {
		return "", false, p.errorf("expected a tag")
	}
	p.pos++
	if p.pos < len(p.data) && p.data[p.pos] == '/' {
		closing = true
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != ']' && p.data[p.pos] != '\n' {
		p.pos++
	}
	if p.pos >= len(p.data) || p.data[p.pos] != ']' {
		return "", false, p.errorf("unterminated tag")
	}
	name = string(p.data[start:p.pos])
	p.pos++
	return name, closing, nil
}

func (p *parser) readAttr() (key string, value []byte, err error) {
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != '=' && p.data[p.pos] != '\n' {
		p.pos++
	}
	if p.pos >= len(p.data) || p.data[p.pos] != '=' {
		return "", nil, p.errorf("expected key=value")
	}
	key = strings.TrimSpace(string(p.data[start:p.pos]))
	p.pos++

	if p.pos < len(p.data) && p.data[p.pos] == '"' {
		value, err = p.readQuoted()
		return key, value, err
	}

	// Unquoted value: the rest of the line.
	vstart := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != '\n' {
		p.pos++
	}
	return key, bytes.TrimSpace(p.data[vstart:p.pos]), nil
}

// readQuoted consumes a double-quoted value. Doubled quotes decode to one
// quote; newlines are part of the value.
func (p *parser) readQuoted() ([]byte, error) {
	p.pos++
	out := []byte{}
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		if b == '"' {
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '"' {
				out = append(out, '"')
				p.pos += 2
				continue
			}
			p.pos++
			return out, nil
		}
		if b == '\n' {
			p.line++
		}
		out = append(out, b)
		p.pos++
	}
	return nil, p.errorf("unterminated quoted value")
}

func (p *parser) expectEOF() error {
	p.skipSpace()
	if p.pos < len(p.data) {
		return p.errorf("trailing data after document")
	}
	return nil
}
