// Package launch opens folders and netlists in desktop applications.
package launch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Runner starts an external command and waits for it to exit.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs commands with os/exec. Arguments are passed as argv, never
// through a shell.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, out)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Launcher builds platform specific commands.
type Launcher struct {
	GOOS string
	// KiCad is the KiCad executable or, on macOS, application bundle.
	// Empty selects the platform default.
	KiCad string
	Run   Runner
}

// New returns a Launcher for the running platform.
func New(kicad string) *Launcher {
	return &Launcher{GOOS: runtime.GOOS, KiCad: kicad, Run: ExecRunner}
}

// FolderCommand returns the argv that opens dir in the file manager.
func (l *Launcher) FolderCommand(dir string) []string {
	switch l.GOOS {
	case "darwin":
		return []string{"open", dir}
	case "windows":
		return []string{"cmd", "/c", "start", "", dir}
	default:
		return []string{"xdg-open", dir}
	}
}

// KiCadCommand returns the argv that opens file in KiCad.
func (l *Launcher) KiCadCommand(file string) []string {
	switch l.GOOS {
	case "darwin":
		app := l.KiCad
		if app == "" {
			app = "/Applications/KiCad/KiCad.app"
		}
		return []string{"open", "-a", app, file}
	case "windows":
		exe := l.KiCad
		if exe == "" {
			exe = "kicad.exe"
		}
		return []string{"cmd", "/c", "start", "", exe, file}
	default:
		exe := l.KiCad
		if exe == "" {
			exe = "kicad"
		}
		return []string{exe, file}
	}
}

// OpenFolder opens dir in the platform file manager.
func (l *Launcher) OpenFolder(ctx context.Context, dir string) error {
	return l.run(ctx, l.FolderCommand(dir))
}

// OpenKiCad opens file in KiCad.
func (l *Launcher) OpenKiCad(ctx context.Context, file string) error {
	return l.run(ctx, l.KiCadCommand(file))
}

func (l *Launcher) run(ctx context.Context, argv []string) error {
	run := l.Run
	if run == nil {
		run = ExecRunner
	}
	if err := run(ctx, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("launch: %w", err)
	}
	return nil
}
