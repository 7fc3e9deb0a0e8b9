package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/server"
)

func main() {
	log.SetPrefix("homestead: ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile | log.Lmsgprefix)

	configFile := flag.String("config", "config.yml", "Path to the configuration file (i.e., /etc/homestead.yaml)")
	flag.Parse()

	if len(strings.Trim(*configFile, " ")) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.Println("loading configuration...")
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	log.Println("starting http server...")
	server.StartServer(cfg)
}
