//go:build !wasm
// +build !wasm

package console

import (
	"fmt"

	"github.com/phenix/musicbox/internal/log"
)

// Native builds (tests, the dev host) have no browser console, so output goes
// to the structured logger instead.

// Log writes args at debug level.
func Log(args ...any) {
	l := log.WithComponent("console")
	l.Debug().Msg(fmt.Sprint(args...))
}

// Warn writes args at warn level.
func Warn(args ...any) {
	l := log.WithComponent("console")
	l.Warn().Msg(fmt.Sprint(args...))
}

// Error writes args at error level.
func Error(args ...any) {
	l := log.WithComponent("console")
	l.Error().Msg(fmt.Sprint(args...))
}
