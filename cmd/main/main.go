package main

import "github.com/Another0Noob/mangadex-mal-import/cmd"

func main() {
	cmd.Execute()
}
