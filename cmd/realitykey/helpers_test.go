// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// RFC 7748 Section 6.1, Alice, in base64url.
const (
	alicePrivate = "dwdtCnMYpX08FsFyUbJmRd9ML4frwJkqsXf7pR25LCo"
	alicePublic  = "hSDwCYkwp1R0i33ctD73Wg2_Og0mOBr066SpjqqbTmo"
)

// runCLI executes the root command with args, capturing the --output file.
// args[0] is the subcommand. Global flag state is restored afterwards.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out")
	full := append([]string{args[0], "--output=" + path}, args[1:]...)
	rootCmd.SetArgs(full)
	t.Cleanup(resetCLI)

	err := rootCmd.Execute()

	data, readErr := os.ReadFile(path)
	if err == nil {
		require.NoError(t, readErr)
	}
	return string(data), err
}

func resetCLI() {
	rootCmd.SetArgs(nil)
	outputFile = ""
	format = formatJSON
	providerName = x25519key.DefaultProvider
	quiet, debug = false, false
	logFormat = "text"

	for _, cmd := range []*cobra.Command{generateCmd, deriveCmd, serveCmd, recordCmd, verifyCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}
