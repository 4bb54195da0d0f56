//go:build unix && !(linux && (386 || amd64 || arm || arm64 || loong64 || ppc64 || ppc64le || riscv64 || s390x))

package lifecycle

import "os"

var platformSignals []os.Signal
