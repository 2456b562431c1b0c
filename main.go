// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics
//
// Lumastat - Lambda mini laser controller
//
// A CLI tool for controlling and monitoring Lambda mini laser heads over
// their textual serial command protocol.

package main

import (
	"os"

	"github.com/lambdaphotonics/lumastat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
