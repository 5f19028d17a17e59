package main

import "github.com/fcjr/acetylene/internal/cmd"

func main() {
	cmd.Execute()
}
