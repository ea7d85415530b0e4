package main

import "github.com/krazyTry/gamma-go/internal/cli"

func main() {
	cli.Execute()
}
