package main

import "github.com/jfmyers9/scrobblemend/cmd"

func main() {
	cmd.Execute()
}
