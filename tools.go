//go:build tools

package main

// Pins the code generators behind the go:generate directives.
import _ "golang.org/x/tools/cmd/stringer"
