// Command sheetkit renders declarative workbook designs into .xlsx files.
package main

import "github.com/klytics/sheetkit/cmd"

func main() {
	cmd.Execute()
}
