// Package buildinfo holds the pacview version stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/pacview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/pacview/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pacview/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/pacview
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the --version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, shortCommit(), Date)
}

// UserAgent identifies pacview in logs and snapshot metadata.
func UserAgent() string {
	return fmt.Sprintf("pacview/%s (%s)", Version, shortCommit())
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
