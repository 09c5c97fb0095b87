package main

import "github.com/chm626/LehighEnergySymposium/internal/cli"

func main() {
	cli.Execute()
}
