package main

import "uilens/cmd"

func main() {
	cmd.Execute()
}
