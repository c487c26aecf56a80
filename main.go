// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/vagrantory/vagrantory/cmd/vagrantory"

func main() {
	cmd.Execute()
}
