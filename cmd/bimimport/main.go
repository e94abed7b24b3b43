package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bim-tools/internal/importer"
	"bim-tools/internal/logging"
)

func main() {
	indexPath := flag.String("index", "", "Path to a library index.json")
	glbDir := flag.String("glb-dir", "", "Directory holding the batch glb files (default: glb/ next to the index)")
	storey := flag.String("storey", "", "Only import batches whose storey contains this text")
	discipline := flag.String("discipline", "", "Only import batches whose discipline contains this text")
	out := flag.String("out", "", "Output scene file (.glb or .json snapshot)")

	flag.Parse()
	_ = godotenv.Load()

	if *indexPath == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "Usage: bimimport -index DIR/index.json -out merged.glb [-storey TEXT] [-discipline TEXT]")
		os.Exit(2)
	}

	log, closeLog, err := logging.New("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	s, report, err := importer.Run(importer.Config{
		IndexPath: *indexPath,
		GLBDir:    *glbDir,
		Filter:    importer.Filter{Storey: *storey, Discipline: *discipline},
		Log:       log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d objects in %d batches\n", report.Imported, report.Batches)
	for _, missing := range report.Missing {
		fmt.Printf("  Missing batch file: %s\n", missing)
	}

	if err := s.Save(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scene written to %s\n", *out)
}
