package main

import (
	cmd "github.com/getzep/nerkit/cmd/nerkit"
)

func main() {
	cmd.Execute()
}
