//go:build ignore

// This program generates the workbook fixture that sample.yaml reads its
// revenue data from. Run from the repository root:
//
//	go run testdata/generate_fixtures.go
package main

import (
	"fmt"
	"os"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Revenue",
				Rows: [][]string{
					{"Quarter", "Product", "Revenue", "Growth"},
					{"Q1 2024", "Enterprise", "1250000", "0.12"},
					{"Q1 2024", "SMB", "450000", "0.08"},
					{"Q1 2024", "Consumer", "320000", "0.15"},
					{"Q2 2024", "Enterprise", "1380000", "0.10"},
					{"Q2 2024", "SMB", "520000", "0.16"},
					{"Q2 2024", "Consumer", "350000", "0.09"},
					{"Q3 2024", "Enterprise", "1450000", "0.05"},
					{"Q3 2024", "SMB", "580000", "0.12"},
					{"Q3 2024", "Consumer", "410000", "0.17"},
					{"Q4 2024", "Enterprise", "1620000", "0.12"},
					{"Q4 2024", "SMB", "640000", "0.10"},
					{"Q4 2024", "Consumer", "480000", "0.17"},
				},
			},
		},
	}
	return xlsx.WriteFile(wb, "testdata/sample.xlsx")
}
