package main

import "github.com/oshokin/pingo/cmd/pingo/cmd"

func main() {
	cmd.Execute()
}
