package diff

import (
	"strings"
	"testing"
)

const twoFileDiff = `diff --git a/src/index.ts b/src/index.ts
index 123..456 100644
--- a/src/index.ts
+++ b/src/index.ts
@@ -1,3 +1,4 @@
 import x from "x";
-const a = 1;
+const a = 2;
+const b = 3;
diff --git a/README.md b/README.md
index 789..abc 100644
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-old docs
+new docs
`

func TestIsDiff(t *testing.T) {
	cases := map[string]struct {
		text string
		want bool
	}{
		"empty":         {"", false},
		"plain text":    {"fix the thing\nand another", false},
		"prefix only":   {"diff --git\n+foo", false},
		"header":        {twoFileDiff, true},
		"header later":  {"commit abc\n\ndiff --git a/x b/x\n", true},
		"crlf header":   {"diff --git a/x b/x\r\n", true},
		"indented text": {" diff --git a/x b/x", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := IsDiff(tc.text); got != tc.want {
				t.Fatalf("IsDiff() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParse_NoHeaders(t *testing.T) {
	for _, text := range []string{"", "\n", "just some words\n+not a diff\n-really"} {
		files := Parse(text)
		if files == nil || len(files) != 0 {
			t.Fatalf("expected empty non-nil list for %q, got %#v", text, files)
		}
		if IsDiff(text) {
			t.Fatalf("IsDiff(%q) should be false", text)
		}
	}
}

func TestParse_TwoFiles(t *testing.T) {
	files := Parse(twoFileDiff)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	index := files[0]
	if index.Path != "src/index.ts" || index.OldPath != "" || index.ChangeType != ChangeModify {
		t.Fatalf("unexpected first file %+v", index)
	}
	if index.Additions != 2 || index.Deletions != 1 {
		t.Fatalf("expected +2 -1, got +%d -%d", index.Additions, index.Deletions)
	}
	if !strings.HasPrefix(index.Content, "diff --git a/src/index.ts b/src/index.ts\n") {
		t.Fatalf("content should start with header, got %q", index.Content)
	}
	if !strings.HasSuffix(index.Content, "+const b = 3;") {
		t.Fatalf("content should end with last hunk line, got %q", index.Content)
	}

	readme := files[1]
	if readme.Path != "README.md" || readme.Additions != 1 || readme.Deletions != 1 {
		t.Fatalf("unexpected second file %+v", readme)
	}
	if strings.Contains(readme.Content, "src/index.ts") {
		t.Fatalf("second file content leaked first file: %q", readme.Content)
	}
}

func TestParse_ContentIsVerbatim(t *testing.T) {
	files := Parse(twoFileDiff)
	var rebuilt []string
	for _, f := range files {
		rebuilt = append(rebuilt, f.Content)
	}
	if got := strings.Join(rebuilt, "\n") + "\n"; got != twoFileDiff {
		t.Fatalf("joined content does not reproduce input:\n%s", got)
	}
}

func TestParse_PreambleDropped(t *testing.T) {
	text := "commit 0123\nAuthor: someone\n\n    message\n\n" + twoFileDiff
	files := Parse(text)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if strings.Contains(files[0].Content, "Author:") {
		t.Fatalf("preamble should not be part of any file")
	}
}

func TestParse_ChangeTypes(t *testing.T) {
	text := `diff --git a/new.go b/new.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/new.go
@@ -0,0 +1,2 @@
+package x
+
diff --git a/gone.go b/gone.go
deleted file mode 100644
--- a/gone.go
+++ /dev/null
@@ -1 +0,0 @@
-package y
diff --git a/old/name.go b/new/name.go
similarity index 90%
rename from old/name.go
rename to new/name.go
@@ -1 +1 @@
-a
+b
diff --git a/same.go b/same.go
index 1..2 100644
`
	files := Parse(text)
	if len(files) != 4 {
		t.Fatalf("expected 4 files, got %d", len(files))
	}
	want := []struct {
		path, old string
		ct        ChangeType
		add, del  int
	}{
		{"new.go", "", ChangeAdd, 2, 0},
		{"gone.go", "", ChangeDelete, 0, 1},
		{"new/name.go", "old/name.go", ChangeRename, 1, 1},
		{"same.go", "", ChangeModify, 0, 0},
	}
	for i, w := range want {
		f := files[i]
		if f.Path != w.path || f.OldPath != w.old || f.ChangeType != w.ct || f.Additions != w.add || f.Deletions != w.del {
			t.Errorf("file %d: got %+v, want %+v", i, f, w)
		}
	}
}

func TestParse_LastMarkerWins(t *testing.T) {
	text := `diff --git a/a.txt b/b.txt
rename from a.txt
rename to b.txt
new file mode 100644
`
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].ChangeType != ChangeAdd {
		t.Fatalf("expected last marker (add) to win, got %s", files[0].ChangeType)
	}
	if files[0].OldPath != "a.txt" {
		t.Fatalf("expected old path to survive, got %q", files[0].OldPath)
	}
}

func TestParse_CountsAcrossHunks(t *testing.T) {
	text := `diff --git a/f.txt b/f.txt
--- a/f.txt
+++ b/f.txt
@@ -1,2 +1,2 @@
 keep
-one
+uno
@@ -10,2 +10,3 @@
 keep
+dos
+++triple plus is not counted
---triple minus is not counted
-tres
`
	f := Parse(text)[0]
	if f.Additions != 2 || f.Deletions != 2 {
		t.Fatalf("expected +2 -2, got +%d -%d", f.Additions, f.Deletions)
	}
}

func TestParse_HeadersNotCountedBeforeHunk(t *testing.T) {
	text := "diff --git a/f b/f\n--- a/f\n+++ b/f\n-not in hunk\n+not in hunk\n"
	f := Parse(text)[0]
	if f.Additions != 0 || f.Deletions != 0 {
		t.Fatalf("lines before the first hunk must not count, got +%d -%d", f.Additions, f.Deletions)
	}
}

func TestParse_Binary(t *testing.T) {
	text := `diff --git a/logo.png b/logo.png
index 1111111..2222222 100644
Binary files a/logo.png and b/logo.png differ
`
	files := Parse(text)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	f := files[0]
	if f.Additions != 0 || f.Deletions != 0 || f.Content == "" {
		t.Fatalf("unexpected binary record %+v", f)
	}
}

func TestParse_EmptyPathSkipped(t *testing.T) {
	text := "diff --git a/x b/\n@@ -1 +1 @@\n+a\ndiff --git a/y b/y\n@@ -1 +1 @@\n+b\n"
	files := Parse(text)
	if len(files) != 1 || files[0].Path != "y" {
		t.Fatalf("expected only y, got %+v", files)
	}
}

func TestParse_CountsMatchPredicate(t *testing.T) {
	files := Parse(twoFileDiff)
	for _, f := range files {
		var add, del int
		inHunk := false
		for _, line := range strings.Split(f.Content, "\n") {
			if strings.HasPrefix(line, "@@") {
				inHunk = true
				continue
			}
			if !inHunk {
				continue
			}
			if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
				add++
			}
			if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
				del++
			}
		}
		if add != f.Additions || del != f.Deletions {
			t.Fatalf("%s: recount +%d -%d, parsed +%d -%d", f.Path, add, del, f.Additions, f.Deletions)
		}
	}
}
