package main

import "github.com/hbomb79/Cadence/cmd"

func main() {
	cmd.Run()
}
