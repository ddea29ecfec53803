package launch

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFolderCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "/c/1"}},
		{"windows", []string{"cmd", "/c", "start", "", "/c/1"}},
		{"linux", []string{"xdg-open", "/c/1"}},
		{"freebsd", []string{"xdg-open", "/c/1"}},
	}
	for _, tt := range tests {
		l := &Launcher{GOOS: tt.goos}
		if got := l.FolderCommand("/c/1"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: FolderCommand() = %q, want %q", tt.goos, got, tt.want)
		}
	}
}

func TestKiCadCommand(t *testing.T) {
	tests := []struct {
		goos  string
		kicad string
		want  []string
	}{
		{"darwin", "", []string{"open", "-a", "/Applications/KiCad/KiCad.app", "x.net"}},
		{"windows", `D:\KiCad\bin\kicad.exe`, []string{"cmd", "/c", "start", "", `D:\KiCad\bin\kicad.exe`, "x.net"}},
		{"linux", "", []string{"kicad", "x.net"}},
		{"linux", "/opt/kicad/bin/kicad", []string{"/opt/kicad/bin/kicad", "x.net"}},
	}
	for _, tt := range tests {
		l := &Launcher{GOOS: tt.goos, KiCad: tt.kicad}
		if got := l.KiCadCommand("x.net"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s/%q: KiCadCommand() = %q, want %q", tt.goos, tt.kicad, got, tt.want)
		}
	}
}

func TestOpenUsesRunner(t *testing.T) {
	var got []string
	l := &Launcher{GOOS: "linux", Run: func(ctx context.Context, name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}}

	if err := l.OpenKiCad(context.Background(), "/tmp/c.net"); err != nil {
		t.Fatalf("OpenKiCad failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"kicad", "/tmp/c.net"}) {
		t.Errorf("ran %q", got)
	}

	boom := errors.New("boom")
	l.Run = func(context.Context, string, ...string) error { return boom }
	if err := l.OpenFolder(context.Background(), "/tmp"); !errors.Is(err, boom) {
		t.Errorf("expected runner error, got %v", err)
	}
}
