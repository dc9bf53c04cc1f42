package sys

import (
	"os"
	"rotaxis/common/logger"
	"runtime/debug"

	"github.com/petermattis/goid"
)

func GetGID() uint64 {
	id := goid.Get()
	return uint64(id)
}

// CatchPanic logs a panic with its goroutine and stack, then exits non-zero.
// Use it deferred at the top of main.
func CatchPanic() {
	if err := recover(); err != nil {
		logger.Error("panic: ", GetGID(), " ", err, "\n", string(debug.Stack()))
		logger.Sync()
		os.Exit(2)
	}
}
