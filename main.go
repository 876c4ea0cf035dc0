package main

import "github.com/domtestio/domtest/cmd"

func main() {
	cmd.Execute()
}
