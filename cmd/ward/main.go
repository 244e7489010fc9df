package main

import "github.com/wardproject/ward/internal/cli"

func main() {
	cli.Execute()
}
