package report

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// runCommand is replaced in tests
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// openerFor returns the command that opens a file with the desktop's default handler
func openerFor(goos string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil, nil
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	default:
		return "", nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}

// Open launches the OS viewer for path
func Open(path string) error {
	name, args, err := openerFor(runtime.GOOS)
	if err != nil {
		return err
	}
	if err := runCommand(name, append(args, path)...); err != nil {
		return fmt.Errorf("failed to open %s with %s: %w", path, name, err)
	}
	log.Debug().Str("path", path).Str("opener", name).Msg("Opened report")
	return nil
}
