package main

import "github.com/leoincedo/kyobokr/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
