package main

import "github.com/lepinkainen/ltsync/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
