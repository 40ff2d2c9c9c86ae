package main

import "ouidb/cmd"

func main() {
	cmd.Execute()
}
