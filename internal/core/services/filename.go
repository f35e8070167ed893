package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	stockCodePattern     = regexp.MustCompile(`^(\d{6})`)
	isoDatePattern       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	localizedDatePattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
)

// FilenameInfo holds the fields encoded in an announcement filename such as
// "600123 SomeGroup 2023-05-10 Announcement.txt".
type FilenameInfo struct {
	StockCode    string
	CompanyName  string
	AnnounceDate string
}

// ParseFilename extracts the stock code, company name and announcement date.
// Missing parts are returned as empty strings.
func ParseFilename(filename string) FilenameInfo {
	var info FilenameInfo

	if m := stockCodePattern.FindStringSubmatch(filename); m != nil {
		info.StockCode = m[1]
	}

	// The company name sits between the code and the first ISO date.
	if info.StockCode != "" {
		rest := strings.TrimSpace(strings.Replace(filename, info.StockCode, "", 1))
		if loc := isoDatePattern.FindStringIndex(rest); loc != nil {
			info.CompanyName = strings.TrimSpace(rest[:loc[0]])
		}
	}

	info.AnnounceDate = parseAnnounceDate(filename)
	return info
}

// parseAnnounceDate returns the first ISO date, else the first localized
// date normalised to YYYY-MM-DD.
func parseAnnounceDate(s string) string {
	if m := isoDatePattern.FindString(s); m != "" {
		return m
	}
	m := localizedDatePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}
