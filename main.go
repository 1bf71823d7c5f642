package main

import "github.com/killallgit/slate/cmd"

func main() {
	cmd.Execute()
}
