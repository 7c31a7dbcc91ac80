package signature

import "sort"

// structure records where the code braces of a source text are, ignoring
// braces inside comments and string literals.
type structure struct {
	braces []brace
	// depth[i] is the nesting depth just before braces[i].
	depth  []int
	masked []textRange
}

type brace struct {
	pos  int
	open bool
}

type textRange struct {
	start, end int // end exclusive
}

func scanStructure(src string) *structure {
	s := &structure{}
	depth := 0
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := i
			for end < len(src) && src[end] != '\n' {
				end++
			}
			s.masked = append(s.masked, textRange{i, end})
			i = end
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := skipBlockComment(src, i)
			s.masked = append(s.masked, textRange{i, end})
			i = end
		case c == '"' || (c == '#' && isRawStringStart(src, i)):
			end := skipString(src, i)
			s.masked = append(s.masked, textRange{i, end})
			i = end
		case c == '{':
			s.braces = append(s.braces, brace{pos: i, open: true})
			s.depth = append(s.depth, depth)
			depth++
			i++
		case c == '}':
			s.braces = append(s.braces, brace{pos: i, open: false})
			s.depth = append(s.depth, depth)
			if depth > 0 {
				depth--
			}
			i++
		default:
			i++
		}
	}
	return s
}

// depthAt returns the brace nesting depth at byte offset pos.
func (s *structure) depthAt(pos int) int {
	k := sort.Search(len(s.braces), func(i int) bool { return s.braces[i].pos >= pos })
	if k == 0 {
		return 0
	}
	prev := k - 1
	if s.braces[prev].open {
		return s.depth[prev] + 1
	}
	if s.depth[prev] > 0 {
		return s.depth[prev] - 1
	}
	return 0
}

// isMasked reports whether pos lies inside a comment or string literal.
func (s *structure) isMasked(pos int) bool {
	k := sort.Search(len(s.masked), func(i int) bool { return s.masked[i].end > pos })
	return k < len(s.masked) && s.masked[k].start <= pos
}

// nextOpen returns the index in braces of the first opening brace at or
// after pos, or -1.
func (s *structure) nextOpen(pos int) int {
	k := sort.Search(len(s.braces), func(i int) bool { return s.braces[i].pos >= pos })
	// A closing brace before any opening one ends the enclosing scope.
	if k < len(s.braces) && s.braces[k].open {
		return k
	}
	return -1
}

// matchClose returns the byte offset of the brace closing braces[k], or -1
// when the text ends first.
func (s *structure) matchClose(k int) int {
	level := 0
	for ; k < len(s.braces); k++ {
		if s.braces[k].open {
			level++
			continue
		}
		level--
		if level == 0 {
			return s.braces[k].pos
		}
	}
	return -1
}

func skipBlockComment(src string, i int) int {
	level := 0
	for i < len(src) {
		switch {
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			level++
			i += 2
		case src[i] == '*' && i+1 < len(src) && src[i+1] == '/':
			level--
			i += 2
			if level == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(src)
}

func isRawStringStart(src string, i int) bool {
	for i < len(src) && src[i] == '#' {
		i++
	}
	return i < len(src) && src[i] == '"'
}

// skipString returns the offset just past the string literal starting at i.
// It understands escapes, interpolation, multi-line and raw delimiters.
func skipString(src string, i int) int {
	hashes := 0
	for i < len(src) && src[i] == '#' {
		hashes++
		i++
	}
	multiline := i+2 < len(src) && src[i+1] == '"' && src[i+2] == '"'
	if multiline {
		i += 3
	} else {
		i++
	}

	closes := func(j int) bool {
		quotes := 1
		if multiline {
			quotes = 3
		}
		for q := 0; q < quotes; q++ {
			if j+q >= len(src) || src[j+q] != '"' {
				return false
			}
		}
		for h := 0; h < hashes; h++ {
			if j+quotes+h >= len(src) || src[j+quotes+h] != '#' {
				return false
			}
		}
		return true
	}
	width := 1 + hashes
	if multiline {
		width = 3 + hashes
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && hashes == 0:
			if i+1 < len(src) && src[i+1] == '(' {
				i = skipInterpolation(src, i+2)
				continue
			}
			i += 2
		case c == '"' && closes(i):
			return i + width
		case c == '\n' && !multiline:
			// Unterminated single-line literal.
			return i
		default:
			i++
		}
	}
	return len(src)
}

func skipInterpolation(src string, i int) int {
	level := 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '(':
			level++
			i++
		case c == ')':
			level--
			i++
			if level == 0 {
				return i
			}
		case c == '"' || (c == '#' && isRawStringStart(src, i)):
			i = skipString(src, i)
		default:
			i++
		}
	}
	return len(src)
}
