// Package source resolves where the text to prepare comes from: a file,
// standard input, the local git repository or a GitHub pull request.
package source

import (
	"fmt"
	"io"
	"os"
)

// Read returns the contents of path, or of stdin when path is "-".
func Read(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
