package main

import "github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli"

func main() {
	cli.Run()
}
