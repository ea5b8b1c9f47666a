package convert

import (
	"fmt"

	"github.com/klytics/sheetkit/internal/document"
)

// Design loads a design file and encodes it as toFmt. Values left at their
// defaults are omitted, so the output is also a normalized form of the input.
func Design(inputPath, toFmt string) (string, error) {
	doc, err := document.Load(inputPath)
	if err != nil {
		return "", err
	}
	data, err := doc.Marshal(document.Format(toFmt))
	if err != nil {
		return "", fmt.Errorf("could not encode %s as %s: %w", inputPath, toFmt, err)
	}
	return string(data), nil
}
