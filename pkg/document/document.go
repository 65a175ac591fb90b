// Package document parses register-map source files into raw tag trees.
//
// A document is tree-structured XML whose tags map one-to-one onto element
// kinds (component, register, field, ...). This package stops at the
// syntactic level: it produces Tags carrying attribute maps, free-text runs,
// children in source order, and source locations. All meaning (schemas,
// defaults, placement) lives in the model package.
package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Location identifies where a tag appears in its source file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Tag is one parsed element: its lower-cased name, attributes, trimmed
// free-text runs, and nested tags in source order.
type Tag struct {
	Name     string
	Attrs    map[string]string
	Text     []string
	Children []*Tag
	Loc      Location
}

// ParseFile reads and parses a single document file.
func ParseFile(path string) (*Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse reads one document from r and returns its root tag. filename is
// recorded in locations and error messages only; r is the source of truth.
//
// The reader is consumed token by token so each tag can be stamped with its
// line number. Comments, processing instructions, and whitespace-only
// character data are discarded.
func Parse(r io.Reader, filename string) (*Tag, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	raw := buf.Bytes()

	dec := xml.NewDecoder(bytes.NewReader(raw))
	lineAt := func() int {
		// Lines are 1-based; InputOffset points just past the current token.
		return 1 + bytes.Count(raw[:dec.InputOffset()], []byte{'\n'})
	}

	var root *Tag
	var stack []*Tag
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineAt(), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			tag := &Tag{
				Name:  strings.ToLower(t.Name.Local),
				Attrs: make(map[string]string, len(t.Attr)),
				Loc:   Location{File: filename, Line: lineAt()},
			}
			for _, a := range t.Attr {
				tag.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%s:%d: multiple root tags", filename, lineAt())
				}
				root = tag
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, tag)
			}
			stack = append(stack, tag)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			cur.Text = append(cur.Text, text)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%s: no root tag", filename)
	}
	return root, nil
}
