package main

import "github.com/deploymenttheory/go-sparserestore/cmd"

func main() {
	cmd.Execute()
}
