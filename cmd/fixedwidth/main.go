package main

import "github.com/lasuillard-s/go-fixedwidth/cmd/fixedwidth/cmd"

func main() {
	cmd.Execute()
}
