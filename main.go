package main

import "github.com/zjrosen/runbook/cmd"

func main() {
	cmd.Execute()
}
