package main

import "github.com/dgallion1/routelens/internal/cli"

func main() {
	cli.Execute()
}
