package main

import (
	"fmt"
	"strings"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	response := deps.Router.Handle(deps.Ctx, strings.Join(c.Message, " "))
	fmt.Fprintln(deps.Stdout, response)
	return nil
}
