package main

import "github.com/theirongolddev/budgetpulse/cmd"

func main() {
	cmd.Execute()
}
