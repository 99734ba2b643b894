package mappings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported mapping format")
	ErrMalformedLine     = errors.New("malformed mapping line")
)

const maxLineSize = 16 << 20

func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mappings: %w", err)
	}
	defer f.Close()
	tree, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read mappings %s: %w", path, err)
	}
	return tree, nil
}

// Read parses a tiny v1 or tiny v2 file, detected from its header line.
func Read(r io.Reader) (*Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}
	header := strings.Split(strings.TrimSuffix(sc.Text(), "\r"), "\t")

	p := &tinyParser{sc: sc, line: 1}
	switch {
	case len(header) >= 2 && header[0] == "v1":
		return p.readV1(header[1:])
	case len(header) >= 4 && header[0] == "tiny" && header[1] == "2":
		return p.readV2(header[3:])
	default:
		return nil, fmt.Errorf("%w: header %q", ErrUnsupportedFormat, sc.Text())
	}
}

type tinyParser struct {
	sc   *bufio.Scanner
	line int
}

func (p *tinyParser) next() (string, bool) {
	if !p.sc.Scan() {
		return "", false
	}
	p.line++
	return strings.TrimSuffix(p.sc.Text(), "\r"), true
}

func (p *tinyParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedLine, p.line, fmt.Sprintf(format, args...))
}

func (p *tinyParser) readV1(namespaces []string) (*Tree, error) {
	tree := &Tree{Namespaces: namespaces, Properties: map[string]string{}}
	byName := map[string]*ClassDef{}
	classFor := func(owner string) *ClassDef {
		if c, ok := byName[owner]; ok {
			return c
		}
		c := &ClassDef{Names: []string{owner}}
		byName[owner] = c
		tree.Classes = append(tree.Classes, c)
		return c
	}

	for {
		line, ok := p.next()
		if !ok {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		switch parts[0] {
		case "CLASS":
			if len(parts) < 2 {
				return nil, p.errorf("CLASS needs at least one name")
			}
			classFor(parts[1]).Names = parts[1:]
		case "FIELD", "METHOD":
			if len(parts) < 4 {
				return nil, p.errorf("%s needs owner, descriptor and a name", parts[0])
			}
			c := classFor(parts[1])
			if parts[0] == "FIELD" {
				c.Fields = append(c.Fields, &FieldDef{Names: parts[3:], Descriptor: parts[2]})
			} else {
				c.Methods = append(c.Methods, &MethodDef{Names: parts[3:], Descriptor: parts[2]})
			}
		default:
			return nil, p.errorf("unknown entry kind %q", parts[0])
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

func (p *tinyParser) readV2(namespaces []string) (*Tree, error) {
	tree := &Tree{Namespaces: namespaces, Properties: map[string]string{}}
	escapedNames := false

	var (
		class  *ClassDef
		field  *FieldDef
		method *MethodDef
		param  *ParamDef
	)

	names := func(raw []string) ([]string, error) {
		if len(raw) != len(namespaces) {
			return nil, p.errorf("%d names for %d namespaces", len(raw), len(namespaces))
		}
		if !escapedNames {
			return raw, nil
		}
		out := make([]string, len(raw))
		for i, n := range raw {
			u, err := unescape(n)
			if err != nil {
				return nil, p.errorf("%v", err)
			}
			out[i] = u
		}
		return out, nil
	}

	comment := func(parts []string) (string, error) {
		if len(parts) < 2 {
			return "", p.errorf("comment without text")
		}
		text, err := unescape(strings.Join(parts[1:], "\t"))
		if err != nil {
			return "", p.errorf("%v", err)
		}
		return text, nil
	}

	for {
		line, ok := p.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := 0
		for depth < len(line) && line[depth] == '\t' {
			depth++
		}
		parts := strings.Split(line[depth:], "\t")

		switch {
		case depth == 1 && class == nil:
			// header properties precede the first class
			key := parts[0]
			value := ""
			if len(parts) > 1 {
				value = parts[1]
			}
			tree.Properties[key] = value
			if key == "escaped-names" {
				escapedNames = true
			}

		case depth == 0:
			if parts[0] != "c" || len(parts) < 2 {
				return nil, p.errorf("expected class entry, got %q", parts[0])
			}
			n, err := names(parts[1:])
			if err != nil {
				return nil, err
			}
			class = &ClassDef{Names: n}
			field, method, param = nil, nil, nil
			tree.Classes = append(tree.Classes, class)

		case depth == 1:
			field, method, param = nil, nil, nil
			switch parts[0] {
			case "c":
				text, err := comment(parts)
				if err != nil {
					return nil, err
				}
				class.Comment = text
			case "f", "m":
				if len(parts) < 3 {
					return nil, p.errorf("member needs descriptor and a name")
				}
				n, err := names(parts[2:])
				if err != nil {
					return nil, err
				}
				if parts[0] == "f" {
					field = &FieldDef{Names: n, Descriptor: parts[1]}
					class.Fields = append(class.Fields, field)
				} else {
					method = &MethodDef{Names: n, Descriptor: parts[1]}
					class.Methods = append(class.Methods, method)
				}
			default:
				return nil, p.errorf("unknown class member kind %q", parts[0])
			}

		case depth == 2:
			param = nil
			switch {
			case parts[0] == "c" && (field != nil || method != nil):
				text, err := comment(parts)
				if err != nil {
					return nil, err
				}
				if field != nil {
					field.Comment = text
				} else {
					method.Comment = text
				}
			case parts[0] == "p" && method != nil:
				if len(parts) < 2 {
					return nil, p.errorf("parameter needs a slot index")
				}
				slot, err := strconv.Atoi(parts[1])
				if err != nil || slot < 0 {
					return nil, p.errorf("invalid parameter slot %q", parts[1])
				}
				raw := parts[2:]
				if len(raw) > len(namespaces) {
					return nil, p.errorf("%d parameter names for %d namespaces", len(raw), len(namespaces))
				}
				// trailing empty names may be omitted
				raw = append(raw, make([]string, len(namespaces)-len(raw))...)
				n, err := names(raw)
				if err != nil {
					return nil, err
				}
				param = &ParamDef{Slot: slot, Names: n}
				method.Params = append(method.Params, param)
			case parts[0] == "v" && method != nil:
				// local variables carry no documentation
			default:
				return nil, p.errorf("unexpected %q entry at depth 2", parts[0])
			}

		case depth == 3:
			switch {
			case parts[0] == "c" && param != nil:
				text, err := comment(parts)
				if err != nil {
					return nil, err
				}
				param.Comment = text
			case parts[0] == "c" && method != nil:
				// local variable comment
			default:
				return nil, p.errorf("unexpected %q entry at depth 3", parts[0])
			}

		default:
			return nil, p.errorf("unexpected indentation %d", depth)
		}
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}

var escapes = map[byte]byte{
	'\\': '\\',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'0':  0,
}

func unescape(s string) (string, error) {
	if strings.IndexByte(s, '\\') == -1 {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		r, ok := escapes[s[i+1]]
		if !ok {
			return "", fmt.Errorf("unknown escape \\%c in %q", s[i+1], s)
		}
		sb.WriteByte(r)
		i++
	}
	return sb.String(), nil
}
