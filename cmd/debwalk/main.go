// Command debwalk streams the content of Debian packages: control fields,
// conffiles and payload entries, without unpacking them.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// programLevel is the level of the default logger, set from flags and config.
var programLevel = new(slog.LevelVar)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      programLevel,
		TimeFormat: time.Kitchen,
	})))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("debwalk failed", "err", err)
		os.Exit(1)
	}
}
