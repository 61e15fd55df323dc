package main

import "github.com/taskrhq/taskr/cmd"

func main() {
	cmd.Execute()
}
