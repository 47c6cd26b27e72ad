package main

import "gtdagent/cli"

func main() {
	cli.Execute()
}
