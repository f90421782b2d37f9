package main

import "github.com/toyz/ngcc/cmd/ngcc/commands"

func main() {
	commands.Execute()
}
