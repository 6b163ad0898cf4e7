package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"voicelines/pkg/db"
	"voicelines/pkg/quiz"
)

func main() {
	path := "data/voicelines.json"

	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ds, err := db.NewFileStore(path).LoadDataset(context.Background())
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	maxEntries := min(10, ds.Len())
	fmt.Printf("Found %d characters with %d lines. Showing first %d:\n\n", ds.Len(), ds.TotalLines(), maxEntries)

	validator := quiz.NewValidator(nil)
	for i, char := range ds.Characters()[:maxEntries] {
		valid := 0
		for _, line := range char.Lines {
			if validator.IsValid(line.Text) {
				valid++
			}
		}
		fmt.Printf("Character %d: %s\n", i+1, char.Hero)
		fmt.Printf("  Lines: %d (quiz-ready: %d)\n", len(char.Lines), valid)
		if len(char.Lines) > 0 {
			fmt.Printf("  First: %s\n", char.Lines[0].Text)
		}
		fmt.Println()
	}
}
