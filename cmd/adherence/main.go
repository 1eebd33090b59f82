package main

import (
	"github.com/tidepool-org/adherence/api"
)

func main() {
	api.MainLoop()
}
