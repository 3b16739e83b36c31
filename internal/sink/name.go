package sink

import "strings"

// nameSanitizer maps characters that act as path separators or are invalid
// in Excel sheet names to an underscore. Category names come straight from
// dump data and cannot be trusted as path or sheet name components.
var nameSanitizer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"?", "_",
	"*", "_",
	"[", "_",
	"]", "_",
)

// maxSheetNameLen is the sheet name length limit imposed by Excel.
const maxSheetNameLen = 31

// reportSheetSuffix distinguishes a category's report sheet from its data
// sheet.
const reportSheetSuffix = "_report"

// safeName makes a category name usable as an output file name component.
func safeName(category string) string {
	return nameSanitizer.Replace(category)
}

// sheetName makes a category name usable as a workbook sheet name.
func sheetName(category string) string {
	name := safeName(category)
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	return name
}

// reportSheetName names a category's report sheet, keeping the suffix intact
// within the sheet name limit.
func reportSheetName(category string) string {
	name := safeName(category)
	if len(name) > maxSheetNameLen-len(reportSheetSuffix) {
		name = name[:maxSheetNameLen-len(reportSheetSuffix)]
	}

	return name + reportSheetSuffix
}
