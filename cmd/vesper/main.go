package main

import (
	"github.com/ddomene/vesper/internal/commands"
)

func main() {
	commands.Execute()
}
