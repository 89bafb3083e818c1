// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
)

const (
	// GOOSWindows is the runtime.GOOS value for Windows.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"
	commandSwitchUnix    = "-c"
	winSystem32          = "System32"
	cmdExe               = "cmd.exe"
	binSh                = "/bin/sh"
	winSystemRootEnv     = "SystemRoot"
	shellEnv             = "SHELL"
)

// DefaultShell returns the interpreter jobs are run with: %SystemRoot%\System32\cmd.exe
// on Windows, otherwise $SHELL falling back to /bin/sh.
func DefaultShell(ctx context.Context) string {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv(shellEnv); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}

// shellArgs returns the arguments that make shell interpret line as a script.
func shellArgs(line string) []string {
	if runtime.GOOS == GOOSWindows {
		return []string{commandSwitchWindows, line}
	}

	return []string{commandSwitchUnix, line}
}
