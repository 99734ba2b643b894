// Package javadoc renders the Javadoc markup found in mapping comments as
// plain text.
package javadoc

import (
	"strings"
	"unicode"
)

// Plain strips Javadoc markup from text. Inline tags are replaced by their
// content and entities are decoded. Runs of blank lines collapse to one.
func Plain(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "{@"):
			tag, n := inlineTag(text[i:])
			sb.WriteString(tag)
			i += n
		case text[i] == '<' && i+1 < len(text) && (text[i+1] == '/' || isLetter(text[i+1])):
			elem, n := element(text[i:])
			sb.WriteString(elem)
			i += n
		case text[i] == '&':
			ent, n := entity(text[i:])
			sb.WriteString(ent)
			i += n
		default:
			sb.WriteByte(text[i])
			i++
		}
	}
	return strings.TrimSpace(collapseBlankLines(sb.String()))
}

// inlineTag renders the {@name content} tag at the start of s and returns
// the number of bytes consumed. Braces inside the content must balance.
func inlineTag(s string) (string, int) {
	depth, end := 0, -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			depth++
		} else if s[i] == '}' {
			depth--
			if depth == 0 {
				end = i
				break
			}
		}
	}
	if end == -1 {
		return s, len(s)
	}

	body := s[2:end]
	name, content := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		name, content = body[:i], strings.TrimSpace(body[i:])
	}

	switch name {
	case "link", "linkplain", "see":
		ref, label := splitReference(content)
		if label != "" {
			return Plain(label), end + 1
		}
		return shortReference(ref), end + 1
	case "value":
		return shortReference(content), end + 1
	case "inheritDoc", "docRoot":
		return "", end + 1
	case "code", "literal":
		return content, end + 1
	}
	return Plain(content), end + 1
}

// splitReference separates a reference such as List#add(int, E) from the
// label that follows it. Spaces inside the parameter list belong to the
// reference.
func splitReference(s string) (ref, label string) {
	parens := 0
	for i, r := range s {
		switch {
		case r == '(':
			parens++
		case r == ')':
			parens--
		case unicode.IsSpace(r) && parens == 0:
			return s[:i], strings.TrimSpace(s[i:])
		}
	}
	return s, ""
}

// shortReference reduces java.util.List#add(E) to add and java.util.List to
// List.
func shortReference(ref string) string {
	if i := strings.LastIndexByte(ref, '#'); i >= 0 {
		member := ref[i+1:]
		if p := strings.IndexByte(member, '('); p >= 0 {
			member = member[:p]
		}
		return member
	}
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func element(s string) (string, int) {
	end := strings.IndexByte(s, '>')
	if end == -1 {
		return s, len(s)
	}
	name := strings.TrimPrefix(s[1:end], "/")
	if i := strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || r == '/' }); i >= 0 {
		name = name[:i]
	}
	closing := s[1] == '/'

	switch strings.ToLower(name) {
	case "p":
		if closing {
			return "", end + 1
		}
		return "\n\n", end + 1
	case "br":
		return "\n", end + 1
	case "li":
		if closing {
			return "", end + 1
		}
		return "\n- ", end + 1
	case "pre":
		return "\n", end + 1
	}
	return "", end + 1
}

var entities = map[string]string{
	"lt":    "<",
	"gt":    ">",
	"amp":   "&",
	"quot":  "\"",
	"apos":  "'",
	"nbsp":  " ",
	"#47":   "/",
	"#64":   "@",
	"#123":  "{",
	"#125":  "}",
	"mdash": "—",
	"ndash": "–",
}

func entity(s string) (string, int) {
	end := strings.IndexByte(s, ';')
	if end == -1 || end > 10 {
		return "&", 1
	}
	if v, ok := entities[s[1:end]]; ok {
		return v, end + 1
	}
	return s[:end+1], end + 1
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.Join(out, "\n")
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
