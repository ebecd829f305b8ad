package main

import (
	"os"

	"github.com/loxide-lang/loxide/cmd"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.App().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(cmd.ExitUsage)
	}
}
