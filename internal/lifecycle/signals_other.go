//go:build !unix

package lifecycle

import "os"

var Signals = []os.Signal{os.Interrupt}

func ignoreSignals() {}
