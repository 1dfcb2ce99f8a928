package main

import "kalban_greenbag/internal/cmd"

func main() {
	cmd.Execute()
}
