package main

import "clinic-desk/cmd"

func main() {
	cmd.Execute()
}
