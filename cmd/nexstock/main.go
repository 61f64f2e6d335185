package main

import "NexStock/cmd/nexstock/commands"

func main() {
	commands.Execute()
}
