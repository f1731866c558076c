package main

import "fitbook/cmd"

func main() {
	cmd.Execute()
}
