package diff

import (
	"regexp"
	"strings"
)

var fileHeaderRegexp = regexp.MustCompile(`^diff --git a/(?P<old>.*?) b/(?P<new>.*?)$`)

const (
	markerNewFile     = "new file mode"
	markerDeletedFile = "deleted file mode"
	markerRenameFrom  = "rename from"
	markerRenameTo    = "rename to"
	hunkMarker        = "@@"
)

// IsDiff reports whether text contains at least one unified-diff file header.
func IsDiff(text string) bool {
	for _, line := range splitLines(text) {
		if fileHeaderRegexp.MatchString(strings.TrimSuffix(line, "\r")) {
			return true
		}
	}
	return false
}

// Parse splits a unified diff into per-file change records in appearance
// order. Lines before the first file header are dropped. Malformed input never
// fails; text without headers yields an empty list.
func Parse(text string) []FileChange {
	var (
		files   []FileChange
		current *accumulator
	)

	flush := func() {
		if current != nil && current.file.Path != "" {
			current.file.Content = strings.Join(current.lines, "\n")
			files = append(files, current.file)
		}
		current = nil
	}

	for _, line := range splitLines(text) {
		if m := fileHeaderRegexp.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			flush()
			current = newAccumulator(
				m[fileHeaderRegexp.SubexpIndex("old")],
				m[fileHeaderRegexp.SubexpIndex("new")],
			)
			current.lines = append(current.lines, line)
			continue
		}
		if current == nil {
			continue
		}
		current.consume(line)
	}
	flush()

	if files == nil {
		return []FileChange{}
	}
	return files
}

type accumulator struct {
	file   FileChange
	lines  []string
	inHunk bool
}

func newAccumulator(oldPath, newPath string) *accumulator {
	acc := &accumulator{file: FileChange{Path: newPath, ChangeType: ChangeModify}}
	if oldPath != newPath {
		acc.file.OldPath = oldPath
	}
	return acc
}

func (a *accumulator) consume(line string) {
	a.lines = append(a.lines, line)

	switch {
	case strings.HasPrefix(line, markerNewFile):
		a.file.ChangeType = ChangeAdd
	case strings.HasPrefix(line, markerDeletedFile):
		a.file.ChangeType = ChangeDelete
	case strings.HasPrefix(line, markerRenameFrom):
		a.file.ChangeType = ChangeRename
		if from := strings.TrimSpace(strings.TrimPrefix(line, markerRenameFrom)); from != "" && from != a.file.Path {
			a.file.OldPath = from
		}
	case strings.HasPrefix(line, markerRenameTo):
		a.file.ChangeType = ChangeRename
		if to := strings.TrimSpace(strings.TrimPrefix(line, markerRenameTo)); to != "" {
			a.file.Path = to
			if a.file.OldPath == to {
				a.file.OldPath = ""
			}
		}
	case strings.HasPrefix(line, hunkMarker):
		// stays set across later hunks of the same file
		a.inHunk = true
	case a.inHunk:
		countLine(&a.file, line)
	}
}

func countLine(f *FileChange, line string) {
	switch {
	case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
		f.Additions++
	case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
		f.Deletions++
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
