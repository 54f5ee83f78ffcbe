// Command ladderweb is the terminal client for the ladder backend.
package main

import "github.com/diogo/ladderweb/internal/commands"

func main() {
	commands.Execute()
}
