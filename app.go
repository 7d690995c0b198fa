package main

import "github.com/enginetools/diffminer/cmd"

func main() {
	cmd.Run()
}
