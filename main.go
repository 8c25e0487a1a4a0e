// Package main provides the entry point for the gridfill CLI tool.
package main

import (
	"gridfill/cmd"
)

func main() {
	cmd.Execute()
}
