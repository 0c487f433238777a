package main

import "honor-sync/cmd"

func main() {
	cmd.Execute()
}
