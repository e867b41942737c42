package main

import "eups-setup/internal/cli"

func main() {
	cli.Execute()
}
