// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the vagrantory CLI: the Ansible dynamic-inventory
// script protocol on the root command (--list, --host, --graph) plus the
// interactive subcommands for inspecting sources, the result cache, the app
// configuration, and watch mode.
//
// Command handlers are thin: they parse flags, delegate to the App
// composition root, and render structured results. Resolution itself lives
// in internal/app/resolve; this package only wires discovery, configuration,
// and output together.
package cmd
