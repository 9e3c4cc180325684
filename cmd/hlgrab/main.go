package main

import "github.com/forPelevin/hlgrab/internal/cli"

func main() {
	cli.Main()
}
