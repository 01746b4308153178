package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzShouldIgnore checks a directory exclude always hides the files below it.
func FuzzShouldIgnore(f *testing.F) {
	f.Add("vendor/", "lib/six.py")
	f.Add("migrations/", "0001_initial.py")
	f.Add("build/", "")
	f.Add("a/b/", "c/d.go")

	f.Fuzz(func(t *testing.T, dir string, rest string) {
		if !strings.HasSuffix(dir, "/") || strings.TrimSpace(dir) != dir || strings.ContainsAny(dir, "*?[") {
			t.Skip()
		}
		path := dir + rest
		if !ShouldIgnore(path, []string{dir}) {
			t.Fatalf("%q should be excluded by %q", path, dir)
		}
		if ShouldIgnore(path, nil) {
			t.Fatalf("%q excluded without patterns", path)
		}
	})
}

// FuzzTruncatePath checks table paths never exceed the column width.
func FuzzTruncatePath(f *testing.F) {
	f.Add("core/resolve.go", 10)
	f.Add("very/deep/package/path/with/many/levels/module.py", 20)
	f.Add("ünïcödé/päth.py", 5)
	f.Add("", 0)

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)
		if width <= 3 || utf8.RuneCountInString(path) <= width {
			if got != path {
				t.Fatalf("TruncatePath(%q, %d) = %q, want unchanged", path, width, got)
			}
			return
		}
		if n := utf8.RuneCountInString(got); n != width {
			t.Fatalf("TruncatePath(%q, %d) has %d runes", path, width, n)
		}
		if !strings.HasPrefix(got, "...") {
			t.Fatalf("TruncatePath(%q, %d) = %q, missing ellipsis", path, width, got)
		}
	})
}

// FuzzParseBoolString checks only the documented spellings are accepted.
func FuzzParseBoolString(f *testing.F) {
	for _, s := range []string{"yes", "No", "TRUE", "false", "1", "0", "y", ""} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		_, err := ParseBoolString(s)
		switch strings.ToLower(s) {
		case "yes", "no", "true", "false", "1", "0":
			if err != nil {
				t.Fatalf("ParseBoolString(%q) rejected a valid value: %v", s, err)
			}
		default:
			if err == nil {
				t.Fatalf("ParseBoolString(%q) accepted an invalid value", s)
			}
		}
	})
}
