package main

import "chemscout/cmd"

func main() {
	cmd.Execute()
}
