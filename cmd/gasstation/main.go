package main

import "github.com/andrescamacho/gasstation-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
