// Command feedctl is the operator CLI for the Bailanysta feed backend.
package main

import "bailanysta/cmd/feedctl/commands"

func main() {
	commands.Execute()
}
