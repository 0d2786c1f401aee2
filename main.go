// Copyright © 2024 The TLISP authors

package main

import "github.com/tlisp-lang/tlisp/cmd"

func main() {
	cmd.Execute()
}
