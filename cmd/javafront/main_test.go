package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSplitArgFile(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"words", "-d out\n\tA.java  B.java\n", []string{"-d", "out", "A.java", "B.java"}},
		{"comments", "# options\n-g # debug\nA.java#trailing\n", []string{"-g", "A.java"}},
		{"double quotes", `-cp "lib/a b.jar" x`, []string{"-cp", "lib/a b.jar", "x"}},
		{"single quotes", `'it''s'`, []string{"it", "s"}},
		{"escapes", `"a\tb\\c\"d" '\101'`, []string{"a\tb\\c\"d", "A"}},
		{"quote ends at newline", "\"open\nnext", []string{"open", "next"}},
		{"quote splits word", `pre"quoted"post`, []string{"pre", "quoted", "post"}},
		{"empty", "  \n# nothing\n", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, splitArgFile(test.text))
		})
	}
}

func TestExpandArgs(t *testing.T) {
	files := map[string]string{
		"opts": "-v\n'@nested'\n",
	}
	read := func(name string) ([]byte, error) {
		s, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(s), nil
	}

	got, err := expandArgs([]string{"check", "@opts", "@@literal", "@", "A.java"}, read)
	assert.NoError(t, err)
	assert.Equal(t, []string{"check", "-v", "@nested", "@literal", "@", "A.java"}, got)

	_, err = expandArgs([]string{"@missing"}, read)
	assert.True(t, errors.Is(err, ErrArgFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeJava(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPosCommand(t *testing.T) {
	out, err := run(t, "pos", "encode", "3", "5")
	assert.NoError(t, err)
	assert.Equal(t, "3077\n", out)

	out, err = run(t, "pos", "decode", "--", "3077", "-1", "5")
	assert.NoError(t, err)
	assert.Equal(t, "3077\t3:5\n-1\t-\n5\t-\n", out)

	_, err = run(t, "pos", "encode", "0", "1")
	assert.Error(t, err)
}

func TestLinesCommand(t *testing.T) {
	path := writeJava(t, "A.java", "class A {\n\tint x;\n}")

	out, err := run(t, "lines", path)
	assert.NoError(t, err)
	assert.Equal(t, "1\t0\tclass A {\n2\t10\t\tint x;\n3\t18\t}\n", out)

	out, err = run(t, "lines", path, "--offset", "11", "--at", "3:1")
	assert.NoError(t, err)
	assert.Equal(t, "11\t2:2\t2050\n3:1\t18\n", out)

	out, err = run(t, "lines", path, "--tabs", "--offset", "11")
	assert.NoError(t, err)
	assert.Equal(t, "11\t2:9\t2057\n", out)

	_, err = run(t, "lines", path, "--at", "9:1")
	assert.True(t, errors.Is(err, ErrBadLocation))
}

func TestTreeCommand(t *testing.T) {
	path := writeJava(t, "C.java", "class C {}")
	out, err := run(t, "tree", path)
	assert.NoError(t, err)
	assert.Equal(t, "CompilationUnit [0-10] "+path+"\n  ClassDef [0-10] class C\n", out)

	_, err = run(t, "tree", "-f", "xml", path)
	assert.Error(t, err)
}

func TestScanCommand(t *testing.T) {
	a := writeJava(t, "A.java", "class A { int x; }")
	b := writeJava(t, "B.java", "class B { int y; int z; }")

	out, err := run(t, "scan", "--histogram", a, b)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "3\tPrimitiveType", lines[0])
	assert.Equal(t, "3\tVarDef", lines[1])
	assert.Contains(t, out, "2\tClassDef\n")
	assert.Contains(t, out, "2\tCompilationUnit\n")

	out, err = run(t, "scan", "--positions=false", a)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "CompilationUnit "+a+"\n  ClassDef class A\n"))
}

func TestScopeCommand(t *testing.T) {
	path := writeJava(t, "S.java", "class S {\n  void m(int p) {\n    int q = p;\n  }\n}\n")

	out, err := run(t, "scope", path, "3:5")
	assert.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "0 scope("))
	assert.Contains(t, out, "    local variable q\n")
	assert.Contains(t, out, "    parameter p\n")
	assert.Contains(t, out, "    method S.m\n")

	out, err = run(t, "scope", "--visible", path, "3:5")
	assert.NoError(t, err)
	assert.Contains(t, out, "local variable q\n")
	assert.Contains(t, out, "class S\n")

	_, err = run(t, "scope", path, "nope")
	assert.True(t, errors.Is(err, ErrBadLocation))
}

func TestCheckCommand(t *testing.T) {
	good := writeJava(t, "Good.java", "class Good { int a; }\n")
	out, err := run(t, "check", good)
	assert.NoError(t, err)
	assert.Equal(t, "", out)

	bad := writeJava(t, "Bad.java", "class Bad {\n  int a;\n  int a;\n}\n")
	out, err = run(t, "check", "--no-context", bad)
	assert.True(t, errors.Is(err, ErrCheckFailed))
	assert.Contains(t, out, bad+":3:3: error: variable a is already defined in class Bad")
}
