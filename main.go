package main

import "github.com/moorec52/aster/cmd"

func main() {
	cmd.Execute()
}
