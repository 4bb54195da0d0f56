//go:build unix

package lifecycle

import (
	"os"
	"os/signal"
	"syscall"
)

// Signals ends the daemon. Every one of them blanks the strip first.
// SIGPIPE is not among them: a client vanishing mid-write is a connection error.
var Signals = append([]os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTERM,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGABRT,
	syscall.SIGTRAP,
	syscall.SIGSYS,
	syscall.SIGALRM,
	syscall.SIGVTALRM,
	syscall.SIGXCPU,
	syscall.SIGXFSZ,
	syscall.SIGIO,
}, platformSignals...)

func ignoreSignals() {
	signal.Ignore(syscall.SIGPIPE)
}
