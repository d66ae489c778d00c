package diff

type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeModify ChangeType = "modify"
	ChangeDelete ChangeType = "delete"
	ChangeRename ChangeType = "rename"
)

// FileChange is one file section of a unified diff.
type FileChange struct {
	Path       string     `json:"path"`
	OldPath    string     `json:"oldPath,omitempty"`
	ChangeType ChangeType `json:"changeType"`
	// Content is the raw section, header line through its last line, verbatim.
	Content   string `json:"-"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ChangedLines is additions plus deletions.
func (f FileChange) ChangedLines() int {
	return f.Additions + f.Deletions
}
