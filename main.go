/*
Copyright © 2025 Orbis Authors
*/
package main

import "orbis/cmd"

func main() {
	cmd.Execute()
}
