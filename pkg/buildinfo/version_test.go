package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	i := Current()
	if i.Version != "v1.2.3" || i.GoVersion != runtime.Version() {
		t.Errorf("Current() = %+v", i)
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template() = %q, missing version", Template())
	}
}
