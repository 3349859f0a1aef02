package main

import "github.com/encodeous/distvec/cmd"

func main() {
	cmd.Execute()
}
