package main

import "github.com/KaramelBytes/limnostrat/cmd"

func main() {
	cmd.Execute()
}
