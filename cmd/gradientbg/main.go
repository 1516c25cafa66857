package main

import "github.com/MeKo-Tech/gradientbg/internal/cmd"

func main() {
	cmd.Execute()
}
