package main

import (
	"fmt"
	"log"
	"os"

	"github.com/linyijun92/naruto-rebirth-game/internal/ops"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  ops backup <dataDir> <archive.tar.gz>
  ops restore <archive.tar.gz> <targetDir>
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) != 4 {
		usage()
	}

	switch os.Args[1] {
	case "backup":
		if err := ops.Backup(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("backup: %v", err)
		}
		log.Printf("backed up %s to %s", os.Args[2], os.Args[3])
	case "restore":
		if err := ops.Restore(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("restore: %v", err)
		}
		log.Printf("restored %s into %s", os.Args[2], os.Args[3])
	default:
		usage()
	}
}
