package idf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrSyntax = errors.New("idf syntax error")
	ErrField  = errors.New("idf field cannot be written")
)

// Reserved holds the characters that end a field or start a comment.
const Reserved = ",;!"

// ValidField reports whether v can be written as one field and read back
// unchanged.
func ValidField(v string) bool {
	return !strings.ContainsAny(v, Reserved+"\r\n") && v == strings.TrimSpace(v)
}

// Parse reads every record from r. Comments run from '!' to the end of the
// line. Record types are normalized to the registered spelling when known.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		tokens  []string
		current strings.Builder
		line    int
		started int
	)

	flush := func() {
		tokens = append(tokens, strings.TrimSpace(current.String()))
		current.Reset()
	}

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '!'); i >= 0 {
			text = text[:i]
		}
		for _, c := range text {
			switch c {
			case ',':
				if len(tokens) == 0 && strings.TrimSpace(current.String()) == "" {
					current.Reset()
					continue
				}
				if len(tokens) == 0 {
					started = line
				}
				flush()
			case ';':
				if len(tokens) == 0 {
					started = line
				}
				flush()
				if tokens[0] == "" {
					return nil, fmt.Errorf("%w: line %d: record without a type", ErrSyntax, line)
				}
				f.Add(newParsed(tokens))
				tokens = nil
			default:
				current.WriteRune(c)
			}
		}
		current.WriteByte(' ')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read idf: %w", err)
	}
	if len(tokens) > 0 || strings.TrimSpace(current.String()) != "" {
		return nil, fmt.Errorf("%w: record starting at line %d is not terminated", ErrSyntax, started)
	}
	return f, nil
}

func newParsed(tokens []string) *Object {
	o := &Object{Type: tokens[0], Fields: append([]string(nil), tokens[1:]...)}
	if s, ok := LookupSchema(o.Type); ok {
		o.Type = s.Type
	}
	return o
}

// WriteTo renders the file with one field per line and the field name as a
// trailing comment.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for i, o := range f.Objects {
		if i > 0 {
			m, _ := bw.WriteString("\n")
			n += int64(m)
		}
		m, err := writeObject(bw, o)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

func (f *File) String() string {
	var b strings.Builder
	f.WriteTo(&b)
	return b.String()
}

func writeObject(w *bufio.Writer, o *Object) (int, error) {
	if !ValidField(o.Type) || o.Type == "" {
		return 0, fmt.Errorf("%w: record type %q", ErrField, o.Type)
	}
	for i, v := range o.Fields {
		if !ValidField(v) {
			return 0, fmt.Errorf("%w: %s %s = %q", ErrField, o.Type, fieldName(o, i), v)
		}
	}
	if len(o.Fields) == 0 {
		return w.WriteString(o.Type + ";\n")
	}
	total, err := w.WriteString(o.Type + ",\n")
	if err != nil {
		return total, err
	}
	for i, v := range o.Fields {
		sep := ","
		if i == len(o.Fields)-1 {
			sep = ";"
		}
		line := fmt.Sprintf("  %-30s !- %s\n", v+sep, fieldName(o, i))
		n, err := w.WriteString(line)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func fieldName(o *Object, i int) string {
	s, ok := LookupSchema(o.Type)
	if !ok {
		return fmt.Sprintf("Field %d", i+1)
	}
	if i < len(s.Fields) {
		return s.Fields[i]
	}
	if len(s.Group) == 0 {
		return fmt.Sprintf("Field %d", i+1)
	}
	rel := i - len(s.Fields)
	return fmt.Sprintf("%s %d", s.Group[rel%len(s.Group)], rel/len(s.Group)+1)
}
