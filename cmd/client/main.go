// Package main runs the interactive terminal client of the recommendation service.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinyakov/restofinder/internal/client"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL string
		caFile  string
		showVer bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert for an HTTPS server")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Restofinder Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	c, err := client.New(baseURL, caFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Type 'help' for a list of commands.")
	sh := &client.Shell{
		Client: c,
		Prompt: client.NewPrompter(os.Stdin, os.Stdout),
		Out:    os.Stdout,
	}
	if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
