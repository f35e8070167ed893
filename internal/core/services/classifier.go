package services

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// Ensure Classifier implements the interface.
var _ driving.Classifier = (*Classifier)(nil)

// Classification reasons.
const (
	ReasonNoText          = "未能提取到文本内容"
	ReasonNoCountry       = "未发现境外国家/地区标识"
	ReasonFilenameMarker  = "确认为境外投资交易（文件名包含境外/海外标识）"
	reasonExcludedFormat  = "被排除：%s"
	reasonNotInvestFormat = "发现境外标识但非投资类交易（国家：%s）"
	reasonAcceptedFormat  = "确认为境外投资交易（目标国家/地区：%s）"
)

// Exclusion reasons.
const (
	ExclusionDomestic       = "境内交易"
	ExclusionDrugApproval   = "仅境外药品注册/上市批准"
	ExclusionOperatingData  = "运营数据/财务数据信息披露"
	ExclusionExportTrade    = "出口贸易业务"
	ExclusionVoluntary      = "自愿性信息披露"
	ExclusionNotOverseas    = "非境外投资业务"
	exclusionProvinceFormat = "境内交易（收购%s公司）"
)

// Line and character windows, counted in lines or runes.
const (
	headingLines          = 100
	titleLines            = 5
	countryTitleLines     = 20
	countryStrippedLines  = 50
	provinceContextBefore = 20
	provinceContextAfter  = 40
	provinceWideBefore    = 30
	provinceWideAfter     = 100
)

// crossBorderPatterns are phrases that mark a document as an explicit
// cross-border investment. Evaluated in order.
var crossBorderPatterns = compileAll(
	`境外.{0,20}投资`,
	`境外.{0,20}(?:收购|并购)`,
	`收购.{0,50}(?:境外|海外|美国|德国|阿根廷|越南|南非)`,
	`对外投资.{0,20}(?:境外|海外)`,
	`境外.{0,20}放款`,
	`放款.{0,20}境外`,
	`境外.{0,20}(?:合资|合作)`,
)

// negativeOverseasPatterns describe overseas activity in negative terms.
var negativeOverseasPatterns = compileAll(
	`仅`+nonSpace+`*境外`,
	`不涉及境外`,
	`无境外`,
	`境外.*占.*%`,
)

// investmentPatterns confirm an investment transaction in body text.
var investmentPatterns = compileAll(
	`(?i)投资.{0,20}境外`,
	`(?i)境外.{0,20}投资`,
	`(?i)境外.{0,20}放款`,
	`(?i)放款.{0,20}境外`,
	`(?i)收购.{0,50}(股权|股份)`,
	`(?i)收购.{0,50}(?:境外|海外|美国|德国|阿根廷|越南|南非)`,
	`(?i)设立.{0,30}(子公司|公司|工厂)`,
	`(?i)成立.{0,30}(子公司|公司)`,
	`(?i)对外投资.{0,20}(?:境外|海外)`,
	`(?i)债权.{0,30}资产权益`,
	`(?i)境外.{0,20}(?:合资|合作)`,
	`(?i)acquir\w*.{0,60}(?:equity|shares|stake)`,
	`(?i)invest\w*.{0,40}(?:overseas|abroad)`,
)

// exportInvestmentWords override the export-trade exclusion.
var exportInvestmentWords = []string{"投资", "收购", "并购", "设立"}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Classifier decides whether a document describes an outbound investment.
// It is stateless apart from its immutable lexicon and safe for concurrent use.
type Classifier struct {
	lexicon   *domain.Lexicon
	countries []string
	logger    *zap.Logger
}

// NewClassifier creates a classifier over the given lexicon.
func NewClassifier(lexicon *domain.Lexicon, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Longest names first so "印度尼西亚" wins over "印度".
	countries := slices.Clone(lexicon.Countries)
	slices.SortStableFunc(countries, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})

	return &Classifier{
		lexicon:   lexicon,
		countries: countries,
		logger:    logger,
	}
}

// Classify returns the verdict for one document.
func (c *Classifier) Classify(doc domain.Document) domain.ClassificationResult {
	if !doc.HasText() {
		return domain.ClassificationResult{Reason: ReasonNoText}
	}

	if exclusion := c.checkExclusion(doc.Text, doc.Filename); exclusion != "" {
		return domain.ClassificationResult{
			Reason:          fmt.Sprintf(reasonExcludedFormat, exclusion),
			ExclusionReason: exclusion,
		}
	}

	country := c.findTargetCountry(doc.Text, doc.Filename)
	if country == "" {
		if c.filenameHasOverseasMarker(doc.Filename) {
			return domain.ClassificationResult{
				IsODI:         true,
				Reason:        ReasonFilenameMarker,
				TargetCountry: domain.TargetCountryUnspecified,
			}
		}
		return domain.ClassificationResult{Reason: ReasonNoCountry}
	}

	if !c.isInvestment(doc.Text, doc.Filename) {
		return domain.ClassificationResult{Reason: fmt.Sprintf(reasonNotInvestFormat, country)}
	}

	return domain.ClassificationResult{
		IsODI:         true,
		Reason:        fmt.Sprintf(reasonAcceptedFormat, country),
		TargetCountry: country,
	}
}

// ClassifyBatch classifies documents in order and logs the tally.
func (c *Classifier) ClassifyBatch(docs []domain.Document) []domain.ClassificationResult {
	results := make([]domain.ClassificationResult, 0, len(docs))
	var odi, excluded, other int

	for i, doc := range docs {
		c.logger.Debug("classifying document",
			zap.Int("index", i+1),
			zap.Int("total", len(docs)),
			zap.String("file", doc.Filename))

		result := c.Classify(doc)
		results = append(results, result)

		switch {
		case result.IsODI:
			odi++
		case result.Excluded():
			excluded++
		default:
			other++
		}
	}

	c.logger.Info("classification complete",
		zap.Int("odi", odi),
		zap.Int("excluded", excluded),
		zap.Int("other", other))
	return results
}

// checkExclusion returns the exclusion reason, or "" when the document is
// not excluded.
func (c *Classifier) checkExclusion(text, filename string) string {
	if matchesAny(text, crossBorderPatterns) {
		heading := headLines(text, headingLines)
		if !containsAny(heading, c.lexicon.DomesticCities) {
			return ""
		}
		country := c.findTargetCountry(text, filename)
		if !slices.Contains(c.lexicon.ClearForeignCountries, country) {
			return ExclusionDomestic
		}
		return ""
	}

	if exclusion := c.checkDomesticAcquisition(text); exclusion != "" {
		return exclusion
	}

	if exclusion := c.checkExclusionKeywords(text); exclusion != "" {
		return exclusion
	}

	if containsAny(text, c.lexicon.OverseasMarkers) && matchesAny(text, negativeOverseasPatterns) {
		return ExclusionNotOverseas
	}

	title := headLines(text, titleLines)
	if !containsAny(strings.ToLower(filename), c.lexicon.FilenameOverseasMarkers) &&
		!containsAny(title, c.lexicon.OverseasMarkers) &&
		containsAny(title, c.lexicon.DomesticCities) {
		return ExclusionDomestic
	}

	return ""
}

// checkDomesticAcquisition looks for "acquire a <province> company" phrasing
// with no clearly foreign country nearby.
func (c *Classifier) checkDomesticAcquisition(text string) string {
	var runes []rune
	for _, province := range c.lexicon.DomesticProvinces {
		idx := strings.Index(text, province)
		if idx < 0 {
			continue
		}
		if runes == nil {
			runes = []rune(text)
		}
		start := utf8.RuneCountInString(text[:idx])
		end := start + utf8.RuneCountInString(province)

		near := runeWindow(runes, start-provinceContextBefore, end+provinceContextAfter)
		if !strings.Contains(near, "收购") || !strings.Contains(near, "公司") {
			continue
		}

		wide := runeWindow(runes, start-provinceWideBefore, end+provinceWideAfter)
		if !containsAny(wide, c.lexicon.ClearForeignCountries) {
			return fmt.Sprintf(exclusionProvinceFormat, province)
		}
	}
	return ""
}

// checkExclusionKeywords applies the keyword families in lexicon order.
func (c *Classifier) checkExclusionKeywords(text string) string {
	for _, kw := range c.lexicon.ExclusionKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		switch {
		case strings.Contains(kw, "境外生产药品") || strings.Contains(kw, "境外注册"):
			if strings.Contains(text, "药品") && (strings.Contains(text, "注册") || strings.Contains(text, "批准")) {
				return ExclusionDrugApproval
			}
		case strings.Contains(kw, "运营数据") || strings.Contains(kw, "运营情况") || strings.Contains(kw, "财务数据"):
			if strings.Contains(text, "披露") || strings.Contains(text, "公告") {
				return ExclusionOperatingData
			}
		case strings.Contains(kw, "出口贸易") || strings.Contains(kw, "出口产品"):
			if !containsAny(text, exportInvestmentWords) {
				return ExclusionExportTrade
			}
		case strings.Contains(kw, "自愿性信息披露"):
			return ExclusionVoluntary
		}
	}
	return ""
}

// findTargetCountry resolves the destination country: filename, then the
// opening lines with overseas markers stripped (when the filename carries
// one), then the title region, then the full text.
func (c *Classifier) findTargetCountry(text, filename string) string {
	if country := c.findCountry(filename); country != "" {
		return country
	}

	if containsAny(filename, c.lexicon.CountryStripMarkers) {
		opening := headLines(text, countryStrippedLines)
		for _, marker := range c.lexicon.CountryStripMarkers {
			opening = strings.ReplaceAll(opening, marker, "")
		}
		if country := c.findCountry(opening); country != "" {
			return country
		}
	}

	if country := c.findCountry(headLines(text, countryTitleLines)); country != "" {
		return country
	}

	return c.findCountry(text)
}

// findCountry returns the longest configured country name present in s.
func (c *Classifier) findCountry(s string) string {
	for _, country := range c.countries {
		if strings.Contains(s, country) {
			return country
		}
	}
	return ""
}

func (c *Classifier) filenameHasOverseasMarker(filename string) bool {
	return containsAny(strings.ToLower(filename), c.lexicon.FilenameOverseasMarkers)
}

// isInvestment reports whether the document describes an investment
// transaction rather than trade or disclosure.
func (c *Classifier) isInvestment(text, filename string) bool {
	lower := strings.ToLower(filename)
	for _, kw := range c.lexicon.FilenameInvestmentKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return matchesAny(text, investmentPatterns)
}

// runeWindow returns runes[start:end] clamped to the slice bounds.
func runeWindow(runes []rune, start, end int) string {
	start = max(start, 0)
	end = min(end, len(runes))
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
