package main

import "github.com/andrescamacho/amalgam-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
