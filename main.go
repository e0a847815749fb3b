package main

import "wallaby/cmd"

func main() {
	cmd.Execute()
}
