package main

import "docsite/internal/cli"

func main() {
	cli.Execute()
}
