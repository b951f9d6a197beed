package main

import (
	"fmt"
	"io"
)

func runHelp(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeSuccess
	}

	cmd := args[0]
	switch cmd {
	case CmdNameScan:
		fmt.Fprintln(stdout, HelpScanUsage)
	case CmdNameStrip:
		fmt.Fprintln(stdout, HelpStripUsage)
	case CmdNameClean:
		fmt.Fprintln(stdout, HelpCleanUsage)
	case CmdNamePlay:
		fmt.Fprintln(stdout, HelpPlayUsage)
	case CmdNameScriptSave:
		fmt.Fprintln(stdout, HelpScriptSaveUsage)
	case CmdNameScriptGet:
		fmt.Fprintln(stdout, HelpScriptGetUsage)
	case CmdNameScriptList:
		fmt.Fprintln(stdout, HelpScriptListUsage)
	case CmdNameScriptDelete:
		fmt.Fprintln(stdout, HelpScriptDeleteUsage)
	case CmdNameVersion:
		fmt.Fprintln(stdout, HelpVersionUsage)
	case CmdNameHelp:
		fmt.Fprintln(stdout, HelpHelpUsage)
	default:
		fmt.Fprintf(stdout, FmtErrorWithDetail, ErrMsgUnknownCommand, cmd)
		fmt.Fprintln(stdout, HelpMainUsage)
		return ExitCodeUsageError
	}

	return ExitCodeSuccess
}
