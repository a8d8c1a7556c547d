package main

import (
	"os"

	"github.com/openstax/pyversionista/pkg/logging"
)

// toolVersion is stamped by the release build via -ldflags.
var toolVersion = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}
