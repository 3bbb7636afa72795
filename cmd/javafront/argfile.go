package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrArgFile = errors.New("cannot read argument file")

// expandArgs replaces every "@file" argument by the arguments listed in
// file. "@@x" stands for the literal argument "@x". Files are not expanded
// recursively.
func expandArgs(args []string, readFile func(string) ([]byte, error)) ([]string, error) {
	var out []string
	for _, arg := range args {
		if len(arg) < 2 || arg[0] != '@' {
			out = append(out, arg)
			continue
		}
		name := arg[1:]
		if name[0] == '@' {
			out = append(out, name)
			continue
		}
		data, err := readFile(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", name, ErrArgFile, err)
		}
		out = append(out, splitArgFile(string(data))...)
	}
	return out, nil
}

func expandOSArgs(args []string) ([]string, error) {
	return expandArgs(args, os.ReadFile)
}

// splitArgFile splits the contents of an argument file into words.
// Whitespace separates words, '#' starts a comment that runs to the end of
// the line, and single or double quotes delimit a word that may contain
// whitespace and backslash escapes. A quoted word also ends at a newline.
func splitArgFile(text string) []string {
	var words []string
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c <= ' ':
			i++
		case c == '#':
			for i < len(text) && text[i] != '\n' && text[i] != '\r' {
				i++
			}
		case c == '"' || c == '\'':
			word, next := quoted(text, i+1, c)
			words = append(words, word)
			i = next
		default:
			start := i
			for i < len(text) && text[i] > ' ' && text[i] != '#' && text[i] != '"' && text[i] != '\'' {
				i++
			}
			words = append(words, text[start:i])
		}
	}
	return words
}

// quoted reads a quoted word starting after the opening quote at i. It
// returns the word and the index after the closing quote.
func quoted(text string, i int, quote byte) (string, int) {
	var sb strings.Builder
	for i < len(text) {
		c := text[i]
		switch {
		case c == quote:
			return sb.String(), i + 1
		case c == '\n' || c == '\r':
			return sb.String(), i
		case c == '\\' && i+1 < len(text):
			r, n := unescape(text[i+1:])
			sb.WriteByte(r)
			i += 1 + n
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// unescape decodes the escape sequence at the start of s, which follows
// a backslash, and returns the byte and the number of bytes consumed.
func unescape(s string) (byte, int) {
	switch c := s[0]; c {
	case 'a':
		return 7, 1
	case 'b':
		return '\b', 1
	case 'f':
		return '\f', 1
	case 'n':
		return '\n', 1
	case 'r':
		return '\r', 1
	case 't':
		return '\t', 1
	case 'v':
		return '\v', 1
	default:
		if c < '0' || c > '7' {
			return c, 1
		}
		// Up to three octal digits, the first at most '3' for three.
		v, n := int(c-'0'), 1
		limit := 2
		if c <= '3' {
			limit = 3
		}
		for n < limit && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			v = v*8 + int(s[n]-'0')
			n++
		}
		return byte(v), n
	}
}
