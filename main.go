package main

import "github.com/haliaxis/triarb/cmd"

func main() {
	cmd.Execute()
}
