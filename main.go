package main

import "github.com/suflam/usersvc/cmd"

func main() {
	cmd.Execute()
}
