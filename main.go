package main

import (
	"flag"
	"log"
	"os"

	"github.com/checkmarble/renewals-backend/cmd"
)

// Set at build time with -ldflags "-X main.apiVersion=..."
var apiVersion = "dev"

func main() {
	shouldRunServer := flag.Bool("server", false, "Run the renewals API server")
	shouldPrintWorklist := flag.Bool("worklist", false, "Score assets and print the worklist as JSON")
	assetsFile := flag.String("assets", "", "Asset file (.csv, .xlsx or .json) for --worklist, sample assets when empty")
	flag.Parse()

	compiledConfig := cmd.CompiledConfig{Version: apiVersion}

	if *shouldPrintWorklist {
		if err := cmd.RunWorklist(*assetsFile, os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

	if *shouldRunServer {
		if err := cmd.RunServer(compiledConfig); err != nil {
			log.Fatal(err)
		}
	}

	if !*shouldRunServer && !*shouldPrintWorklist {
		flag.Usage()
		os.Exit(2)
	}
}
