package main

import "github.com/isaacphi/tracetail/internal/ui/cli"

func main() {
	cli.Execute()
}
