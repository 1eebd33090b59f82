package main

import (
	"github.com/tidepool-org/adherence/cmd/alerts/command"
)

func main() {
	command.Execute()
}
