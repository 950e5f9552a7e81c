package main

import "visitorlog/cmd"

func main() {
	cmd.Execute()
}
