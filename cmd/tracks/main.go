package main

import "github.com/open-wander/tracks/internal/cmd"

func main() {
	cmd.Execute()
}
