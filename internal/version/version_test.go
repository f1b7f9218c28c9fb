package version

import (
	"strings"
	"testing"
)

func TestVersionNamesEveryComponent(t *testing.T) {
	// The rendered string carries color escapes when attached to a
	// terminal, so match the components rather than the whole.
	for _, part := range []string{"0", "1", "-dev"} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q lacks %q", Version, part)
		}
	}
}

func TestBuildMetadataOverridable(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "3f9c2ab"
	BuildDate = "2026-08-23T00:00:00Z"
	if GitCommit != "3f9c2ab" {
		t.Errorf("GitCommit = %q after override", GitCommit)
	}
	if BuildDate != "2026-08-23T00:00:00Z" {
		t.Errorf("BuildDate = %q after override", BuildDate)
	}
}
