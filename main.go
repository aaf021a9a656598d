/*
Copyright © 2026 Dyc3r
*/
package main

import (
	"github.com/Dyc3r/docs2cms/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/Dyc3r/docs2cms/extension/all"
)

func main() {
	cmd.Execute()
}
