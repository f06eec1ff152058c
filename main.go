package main

import "campodigital/cmd"

func main() {
	cmd.Execute()
}
