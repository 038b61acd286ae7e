package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/slsah/internal/errors"
)

// signalContext returns a context canceled on SIGINT or SIGTERM, so batch
// work stops between AppIDs instead of leaving partial files.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// IsSilent reports whether err only carries an exit code and has already
// been reported to the user.
func IsSilent(err error) bool {
	return errors.Is(err, errDoctorWarnings) || errors.Is(err, errDoctorErrors)
}
