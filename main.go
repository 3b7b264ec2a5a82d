package main

import "github.com/frahmantamala/todo-api/cmd"

func main() {
	cmd.Execute()
}
