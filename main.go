package main

import "github.com/samsaffron/comark/cmd"

func main() {
	cmd.Execute()
}
