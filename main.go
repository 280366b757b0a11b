package main

import "github.com/frahmantamala/care-roster/cmd"

func main() {
	cmd.Execute()
}
