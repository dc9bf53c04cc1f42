package file

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotatedPath(t *testing.T) {
	cases := map[string]string{
		"part.gcode":          "part_rotating-axis.gcode",
		"/tmp/a.b/part.gcode": "/tmp/a.b/part_rotating-axis.gcode",
		"noext":               "noext_rotating-axis",
	}
	for in, want := range cases {
		if got := RotatedPath(in); got != want {
			t.Fatalf("RotatedPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCloseWithSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gcode")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.WriteString("G28\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := CloseWithSync(f); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "G28\n" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandUser("~/prints/part.gcode"); got != filepath.Join(home, "prints/part.gcode") {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := ExpandUser("~"); got != home {
		t.Fatalf("unexpected expansion %q", got)
	}
	for _, p := range []string{"", "part.gcode", "/abs/~x", "~nosuchuser-rotaxis/x"} {
		if got := ExpandUser(p); got != p {
			t.Fatalf("ExpandUser(%q) = %q, want unchanged", p, got)
		}
	}
}
