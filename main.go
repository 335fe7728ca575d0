package main

import "github.com/humandbs/humcat/cmd"

func main() {
	cmd.Execute()
}
