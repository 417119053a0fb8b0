package main

import "github.com/bizbridge/bizbridge/cmd"

func main() {
	cmd.Execute()
}
