package main

import (
	"log"

	"github.com/mkarpov/interview-runner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
