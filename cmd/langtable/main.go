package main

import "langtable/internal/cli"

func main() {
	cli.Execute()
}
