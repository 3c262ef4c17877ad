package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Debugf("wellcalc: %v", err)
		os.Exit(1)
	}
}
