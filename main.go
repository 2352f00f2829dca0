package main

import "github.com/worksledger/worksledger/cmd"

func main() {
	cmd.Execute()
}
