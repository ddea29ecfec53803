package main

import "github.com/Leumas-Tech/CircuitBuilder/cmd/circuitbuilder/cmd"

func main() {
	cmd.Execute()
}
