package main

import "setupdata/cmd/setupdata/cmd"

func main() {
	cmd.Execute()
}
