package convert

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

// XlsxToCSV converts an XLSX sheet to CSV. Short rows are padded to the
// widest row.
func XlsxToCSV(inputPath, sheetName string) (string, error) {
	sheet, err := getSheet(inputPath, sheetName)
	if err != nil {
		return "", err
	}
	width := sheetWidth(sheet)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range sheet.Rows {
		if err := w.Write(pad(row, width)); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// XlsxToJSON converts an XLSX sheet to an array of objects keyed by the
// first row. Blank headers become the column letter.
func XlsxToJSON(inputPath, sheetName string) (string, error) {
	sheet, err := getSheet(inputPath, sheetName)
	if err != nil {
		return "", err
	}
	if len(sheet.Rows) < 1 {
		return "[]", nil
	}

	headers := headerRow(sheet)
	records := make([]map[string]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}

	result, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// XlsxToMarkdown converts an XLSX sheet to a GFM table with the first row as
// the header.
func XlsxToMarkdown(inputPath, sheetName string) (string, error) {
	sheet, err := getSheet(inputPath, sheetName)
	if err != nil {
		return "", err
	}
	if len(sheet.Rows) < 1 {
		return "", nil
	}

	headers := headerRow(sheet)
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeAll(headers), " | ") + " |\n")
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range sheet.Rows[1:] {
		b.WriteString("| " + strings.Join(escapeAll(pad(row, len(headers))), " | ") + " |\n")
	}
	return b.String(), nil
}

func getSheet(inputPath, sheetName string) (*xlsx.Sheet, error) {
	wb, err := xlsx.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("could not read xlsx: %w", err)
	}
	if sheetName != "" {
		return wb.GetSheet(sheetName)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in %s", inputPath)
	}
	return &wb.Sheets[0], nil
}

func headerRow(sheet *xlsx.Sheet) []string {
	headers := pad(sheet.Rows[0], sheetWidth(sheet))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			headers[i] = columnLetter(i)
		}
	}
	return headers
}

func sheetWidth(sheet *xlsx.Sheet) int {
	w := 0
	for _, r := range sheet.Rows {
		w = max(w, len(r))
	}
	return w
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.NewReplacer("|", `\|`, "\n", " ").Replace(c)
	}
	return out
}

func columnLetter(i int) string {
	name := ""
	for i++; i > 0; i = (i - 1) / 26 {
		name = string(rune('A'+(i-1)%26)) + name
	}
	return name
}
