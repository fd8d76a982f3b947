package main

import "gridcentric/canaryctl/cmd"

func main() {
	cmd.Execute()
}
