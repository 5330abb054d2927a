// Command worldgen is the CLI entry point: argument parsing and subcommand
// dispatch live in internal/cmd (an external collaborator to the
// generation pipeline itself, per the core's scope).
package main

import "github.com/worldatlas/worldgen/internal/cmd"

func main() {
	cmd.Execute()
}
