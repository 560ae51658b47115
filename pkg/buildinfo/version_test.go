package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v9.9.9"
	info := Get()
	if info.Version != "v9.9.9" {
		t.Errorf("Get().Version = %q", info.Version)
	}
	if !strings.HasPrefix(info.String(), "version: v9.9.9\n") {
		t.Errorf("String() = %q", info.String())
	}
	if !strings.Contains(Template(), "{{.Name}} version v9.9.9") {
		t.Errorf("Template() = %q", Template())
	}
}
