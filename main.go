// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/pakextract/cmd/pakextract"

func main() {
	cmd.Execute()
}
