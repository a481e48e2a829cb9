// Package browser launches the platform default browser.
package browser

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	pkgbrowser "github.com/pkg/browser"

	"pkgsrc/internal/slogutil"
)

var supported = map[string]bool{
	"darwin":  true,
	"linux":   true,
	"windows": true,
	"freebsd": true,
	"openbsd": true,
	"netbsd":  true,
}

// Supported reports whether URLs can be opened on goos.
func Supported(goos string) bool {
	return supported[goos]
}

// Opener opens URLs. On unsupported platforms Open is a silent no-op.
type Opener struct {
	goos   string
	open   func(string) error
	logger *slog.Logger
}

// New returns an Opener for the running platform. Output of the launched
// command goes to stderr so stdout stays machine readable.
func New(stderr io.Writer, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	pkgbrowser.Stdout = stderr
	pkgbrowser.Stderr = stderr
	return &Opener{goos: runtime.GOOS, open: pkgbrowser.OpenURL, logger: logger}
}

// Open launches url.
func (o *Opener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !Supported(o.goos) {
		o.logger.Debug("No browser launcher for platform", "os", o.goos, "url", url)
		return nil
	}
	o.logger.Debug("Opening browser", "url", url)
	return o.open(url)
}
