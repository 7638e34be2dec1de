// Package main provides the Kiln CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kiln-ml/kiln/alias"
	"github.com/kiln-ml/kiln/loader"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Kiln %s\n", version)
			return
		case "analyze":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: kiln analyze <graph.yaml>")
				os.Exit(2)
			}
			if os.Getenv("KILN_DEBUG") != "" {
				logrus.SetLevel(logrus.DebugLevel)
			}
			if err := analyze(os.Args[2]); err != nil {
				logrus.WithError(err).Fatal("analysis failed")
			}
			return
		}
	}

	fmt.Println("Kiln - Layout Alias Analysis for Tensor Dataflow Graphs")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  analyze <graph.yaml>    Run alias analysis on a graph description")
	fmt.Println("  version                 Show version")
}

func analyze(path string) error {
	g, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"graph":   g.ID(),
		"ops":     len(g.Ops()),
		"tensors": len(g.Tensors()),
	}).Info("loaded graph")

	result, err := alias.Find(g)
	if err != nil {
		return err
	}
	fmt.Print(result.String())
	return nil
}
