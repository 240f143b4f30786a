package exam

import (
	"fmt"
	"strings"
)

// DefaultImageBase is the raw content host of the question archive.
const DefaultImageBase = "https://raw.githubusercontent.com"

// Archive locates the repository that hosts question images.
type Archive struct {
	BaseURL string
	Owner   string
	Repo    string
	Branch  string
	Ext     string
}

// BuildImageLocation formats
// <base>/<owner>/<repo>/<branch>/images/<folder>/<year>/<question>.<ext>.
func (a Archive) BuildImageLocation(k Kind, year, question int) string {
	return fmt.Sprintf("%s/%s/%s/%s/images/%s/%d/%d.%s",
		strings.TrimRight(a.BaseURL, "/"), a.Owner, a.Repo, a.Branch,
		k.Folder(), year, question, a.Ext)
}
