package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// Ensure RuleExtractor implements the interface.
var _ driving.Extractor = (*RuleExtractor)(nil)

// Sentinels written by the rule extractor.
const (
	TransactionTypeOther = "其他"
	ProgressPlanned      = "拟进行/计划中"
	ProgressCompleted    = "已完成/已交割"
	ProgressSigned       = "已签署协议"
	ProgressApproved     = "已获得批准"
	ProgressUnspecified  = "未明确"
)

// companySuffix matches the legal-form tail of a company name.
const companySuffix = `(?:公司|有限公司|股份|Corp|Inc|Ltd|GmbH)`

// amountRules are tried in priority order: hundred-million foreign currency,
// ten-thousand foreign currency, hundred-million yuan, ten-thousand or plain
// yuan, million/thousand foreign currency, then symbol-prefixed amounts.
var amountRules = ruleChain{
	matchRule("亿外币", `[\d,]+\.?\d*\s*亿\s*(?:美元|USD|欧元|英镑|EUR|GBP)`),
	matchRule("万美元", `[\d,]+\.?\d*\s*万\s*(?:美元|USD)`),
	matchRule("亿元", `[\d,]+\.?\d*\s*亿\s*(?:元|人民币)`),
	matchRule("万元", `[\d,]+\.?\d*\s*(?:万元|元)`),
	matchRule("百万外币", `[\d,]+\.?\d*\s*(?:百万|千)\s*(?:美元|欧元|英镑|港币|日元)`),
	matchRule("USD", `\$[\d,]+\.?\d*`),
	matchRule("EUR", `€[\d,]+\.?\d*`),
	matchRule("GBP", `£[\d,]+\.?\d*`),
}

var percentageRules = ruleChain{
	matchRule("percent", `\d+(?:\.\d+)?%`),
	matchRule("spaced percent", `\d+(?:\.\d+)?\s*%`),
	matchRule("equity", `\d+(?:\.\d+)?\s*[\x{4e00}-\x{9fa5}]*股权`),
}

var counterpartyRules = ruleChain{
	groupRule("交易对手", `交易对手[:：\s]*(`+nonSpace+`{2,50})`, nil),
	groupRule("交易对方", `交易对方[:：\s]*(`+nonSpace+`{2,50})`, nil),
	groupRule("出售方", `出售方[:：\s]*(`+nonSpace+`{2,50})`, nil),
	groupRule("转让方", `转让方[:：\s]*(`+nonSpace+`{2,50})`, nil),
	groupRule("合作方", `合作方[:：\s]*(`+nonSpace+`{2,50})`, nil),
	groupRule("signed with", `与\s*(`+nonSpace+`{2,30})\s*(?:签署|签订)`, nil),
}

// progressPatterns are the phase categories in priority order:
// completed, signed, in progress, planned, approved.
var progressPatterns = compileAll(
	`(?:交易|项目|收购|投资).*?(?:已完成|已交割|已实施|已完成交割)`,
	`(?:交易|项目|收购|投资).*?(?:已签署|已签订).*?(?:协议|合同)`,
	`(?:交易|项目|收购|投资).*?(?:正在进行|进行中)`,
	`(?:交易|项目|收购|投资).*?(?:拟|计划|筹划|准备)`,
	`(?:交易|项目|收购|投资).*?(?:已获.*?批准|已通过.*?审议)`,
)

// investorSelfReference marks text describing the investor rather than the target.
var investorSelfReference = []string{"我司", "本公司", "公司是", "从事贸易类", "凭证结算"}

var businessScopeRules = ruleChain{
	groupRule("target main business",
		`(?:标的公司|目标公司|该标的公司).*?(?:主要从事|主要业务|业务范围)[:：\s]*([^\n]{10,200}?)(?:\.|。|；)`,
		rejectSelfReference),
	groupRule("target scope",
		`(?:标的公司|目标公司|被收购方).*?(?:主营业务|经营范围)[:：\s]*([^\n]{10,200}?)(?:\.|。|；)`,
		rejectSelfReference),
	groupRule("labelled scope",
		`(?:主要)?(?:业务范围|经营范围|主营业务)[:：\s]*([^\n]{10,200}?)(?:\.|。|；)`,
		rejectSelfReference),
}

var businessScopeKeywords = []string{"业务", "经营", "主营"}

var investmentEntityRules = ruleChain{
	groupRule("labelled", `(?:投资主体|投资方).*?[:：]\s*(`+nonSpace+`{2,50})`, nil),
	groupRule("through company", `通过\s*(`+nonSpace+`{2,30}(?:公司|有限公司))\s*(?:进行投资|收购|设立)`, nil),
	groupRule("subsidiary", `全资子公司\s*(`+nonSpace+`{2,30})\s*(?:拟投资|拟收购)`, nil),
}

var spvKeywords = []string{"SPV", "特殊目的公司", "中间层", "全资孙公司", "控股子公司", "全资子公司"}

var fundingSourceVocabulary = []string{"自有资金", "募集资金", "银行贷款", "自有及自筹资金", "银行借款"}

var fundingSourceRules = ruleChain{
	groupRule("labelled", `资金来源[:：]\s*([^\n。]{5,100})`, nil),
	groupRule("using", `使用\s*(`+nonSpace+`{5,50})\s*(?:进行|用于).*?(?:收购|投资)`, nil),
	groupRule("paying with", `以\s*(`+nonSpace+`{5,50})\s*(?:支付|投资)`, nil),
	funcRule("vocabulary", func(text string) string {
		kw, _ := firstContaining(text, fundingSourceVocabulary)
		return kw
	}),
}

var paymentMethodRules = ruleChain{
	groupRule("labelled", `支付方式[:：]\s*([^\n。]{5,100})`, nil),
	groupRule("paid by", `以\s*(`+nonSpace+`{5,30})\s*(?:方式)?支付`, nil),
	funcRule("cash", func(text string) string {
		if strings.Contains(text, "现金") {
			return "现金"
		}
		return ""
	}),
	funcRule("equity swap", func(text string) string {
		if strings.Contains(text, "股权") && strings.Contains(text, "置换") {
			return "股权置换"
		}
		return ""
	}),
}

var earnOutKeywords = []string{"对赌", "业绩承诺", "业绩补偿", "盈利预测", "净利润承诺"}

var architectureKeywords = []string{"交易架构", "投资路径", "股权结构", "投资结构"}

var architectureThroughPattern = regexp.MustCompile(`通过\s*([^\n。]{30,150})\s*(?:进行|实施|收购)`)

var foreignApprovalKeywords = []string{
	"反垄断审查", "经营者集中", "外商投资审查", "国家安全审查", "境外监管", "外国政府", "东道国审批",
}

var approvalProgressKeywords = []string{"已获", "已通过", "尚需", "待", "正在办理", "备案", "批准"}

var approvalConditionKeywords = []string{"先决条件", "前提条件", "审批条件", "所需条件"}

var closingConditionKeywords = []string{"交割条件", "完成条件", "交割前提", "完成前提"}

var licenseKeywords = []string{"牌照", "资质", "许可证", "特许经营", "行业许可"}

var targetCompanyKeywords = []string{"收购", "投资", "设立", "成立", "并购"}

var targetCompanyInSentence = regexp.MustCompile(`(` + nonSpace + `{2,30}(?:公司|有限公司|股份))`)

// Truncation limits, in characters.
const (
	equitySentenceLimit     = 50
	maxEquityRatios         = 3
	spvLimit                = 80
	earnOutLimit            = 100
	architectureLimit       = 150
	foreignApprovalLimit    = 60
	approvalProgressLimit   = 80
	conditionLimit          = 120
	licenseLimit            = 80
	licenseMinLength        = 20
	businessScopeMinLength  = 20
	progressMatchesExamined = 2
	licenseSentencesPerWord = 2
)

// ExtractAmount returns the highest-priority monetary amount in text.
func ExtractAmount(text string) string {
	return amountRules.first(text)
}

// ExtractPercentage returns the first percentage in text.
func ExtractPercentage(text string) string {
	return percentageRules.first(text)
}

func rejectSelfReference(candidate string) bool {
	return containsAny(cleanText(candidate), investorSelfReference)
}

// RuleExtractor extracts transaction fields with ordered keyword and pattern
// rules. It is stateless and deterministic.
type RuleExtractor struct {
	lexicon *domain.Lexicon
	logger  *zap.Logger
}

// NewRuleExtractor creates a rule extractor over the given lexicon.
func NewRuleExtractor(lexicon *domain.Lexicon, logger *zap.Logger) *RuleExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleExtractor{lexicon: lexicon, logger: logger}
}

// Extract returns the rule record for an accepted document.
func (e *RuleExtractor) Extract(
	_ context.Context,
	doc domain.Document,
	cls domain.ClassificationResult,
) domain.ExtractionResult {
	return domain.ExtractionResult{
		Record:  e.Record(doc, cls),
		Outcome: domain.OutcomeRuleOnly,
	}
}

// Record builds the full rule record.
func (e *RuleExtractor) Record(doc domain.Document, cls domain.ClassificationResult) domain.ExtractionRecord {
	text := doc.Text
	sentences := splitSentences(text)
	info := ParseFilename(doc.Filename)

	return domain.ExtractionRecord{
		BasicInfo: domain.BasicInfo{
			StockCode:       info.StockCode,
			CompanyName:     info.CompanyName,
			AnnounceDate:    info.AnnounceDate,
			FileName:        doc.Filename,
			TargetCountry:   cls.TargetCountry,
			TargetCompany:   extractTargetCompany(text, sentences, cls.TargetCountry),
			TransactionType: e.extractTransactionType(text),
			Amount:          ExtractAmount(text),
			EquityRatio:     e.extractEquityRatio(sentences),
			Counterparty:    cleanText(counterpartyRules.first(text)),
			ProgressStage:   extractProgress(text, sentences),
			BusinessScope:   e.extractBusinessScope(text, sentences),
		},
		Structure: domain.Structure{
			InvestmentEntity:        cleanText(investmentEntityRules.first(text)),
			SPVStructure:            firstSentenceFor(text, sentences, spvKeywords, spvLimit),
			FundingSource:           cleanText(fundingSourceRules.first(text)),
			PaymentMethod:           cleanText(paymentMethodRules.first(text)),
			EarnOut:                 firstSentenceFor(text, sentences, earnOutKeywords, earnOutLimit),
			TransactionArchitecture: extractArchitecture(text, sentences),
		},
		Approvals: domain.Approvals{
			DomesticApprovals:  e.extractDomesticApprovals(text, sentences),
			ForeignApprovals:   extractForeignApprovals(text, sentences),
			ApprovalProgress:   firstSentenceFor(text, sentences, approvalProgressKeywords, approvalProgressLimit),
			ApprovalConditions: firstSentenceFor(text, sentences, approvalConditionKeywords, conditionLimit),
			ClosingConditions:  firstSentenceFor(text, sentences, closingConditionKeywords, conditionLimit),
			SpecialLicenses:    extractLicenses(text, sentences),
		},
	}
}

// extractTargetCompany finds the target company name. Without a target
// country there is nothing to anchor on.
func extractTargetCompany(text string, sentences []string, country string) string {
	if country == "" {
		return ""
	}

	quoted := regexp.QuoteMeta(country)
	rules := ruleChain{
		matchRule("country company", `[^。\n，]*`+quoted+`[^。\n，]*`+companySuffix),
		groupRule("acquire company", `(?:收购|投资|设立|成立).{0,30}(`+nonSpace+`{2,30}`+companySuffix+`)`, nil),
		groupRule("target label", `标的公司[:：\s]*(`+nonSpace+`{2,50})`, nil),
		groupRule("objective label", `目标公司[:：\s]*(`+nonSpace+`{2,50})`, nil),
	}
	if v := rules.first(text); v != "" {
		return cleanText(v)
	}

	for _, kw := range targetCompanyKeywords {
		for _, s := range sentencesWith(sentences, kw) {
			if !strings.Contains(s, country) {
				continue
			}
			if m := targetCompanyInSentence.FindStringSubmatch(s); m != nil {
				return cleanText(m[1])
			}
		}
	}
	return ""
}

func (e *RuleExtractor) extractTransactionType(text string) string {
	for _, t := range e.lexicon.TransactionTypes {
		if containsAny(text, t.Keywords) {
			return t.Name
		}
	}
	return TransactionTypeOther
}

// extractEquityRatio collects up to three "<pct> - <sentence>" entries from
// sentences mentioning equity.
func (e *RuleExtractor) extractEquityRatio(sentences []string) string {
	var ratios []string
	for _, kw := range e.lexicon.EquityKeywords {
		for _, s := range sentencesWith(sentences, kw) {
			if pct := ExtractPercentage(s); pct != "" {
				ratios = append(ratios, fmt.Sprintf("%s - %s", pct, truncate(s, equitySentenceLimit)))
			}
		}
	}
	if len(ratios) > maxEquityRatios {
		ratios = ratios[:maxEquityRatios]
	}
	return strings.Join(ratios, "; ")
}

// extractProgress maps the first matching phase pattern to its sentence,
// falling back to single keywords.
func extractProgress(text string, sentences []string) string {
	for _, re := range progressPatterns {
		for _, m := range re.FindAllString(text, progressMatchesExamined) {
			if matched := sentencesWith(sentences, m); len(matched) > 0 {
				return cleanText(matched[0])
			}
		}
	}

	switch {
	case strings.Contains(text, "拟") || strings.Contains(text, "计划"):
		return ProgressPlanned
	case strings.Contains(text, "已完成") || strings.Contains(text, "已交割"):
		return ProgressCompleted
	case strings.Contains(text, "已签署") || strings.Contains(text, "已签订"):
		return ProgressSigned
	case strings.Contains(text, "批准"):
		return ProgressApproved
	default:
		return ProgressUnspecified
	}
}

// extractBusinessScope prefers sentences describing the target company and
// skips anything describing the investor itself.
func (e *RuleExtractor) extractBusinessScope(text string, sentences []string) string {
	if v := businessScopeRules.first(text); v != "" {
		return cleanText(v)
	}

	for _, kw := range businessScopeKeywords {
		for _, s := range sentencesWith(sentences, kw) {
			if runeLen(s) <= businessScopeMinLength {
				continue
			}
			if strings.Contains(s, "我司") || strings.Contains(s, "本公司") {
				e.logger.Debug("skipping investor business description", zap.String("sentence", truncate(s, 60)))
				continue
			}
			return cleanText(s)
		}
	}
	return ""
}

func extractArchitecture(text string, sentences []string) string {
	if v := firstSentenceFor(text, sentences, architectureKeywords, architectureLimit); v != "" {
		return v
	}
	if m := architectureThroughPattern.FindStringSubmatch(text); m != nil {
		return cleanText(m[1])
	}
	return ""
}

// extractDomesticApprovals lists the approval categories mentioned in text,
// in lexicon order.
func (e *RuleExtractor) extractDomesticApprovals(text string, sentences []string) string {
	var names []string
	for _, category := range e.lexicon.ApprovalCategories {
		kw, ok := firstContaining(text, category.Keywords)
		if !ok {
			continue
		}
		if len(sentencesWith(sentences, kw)) > 0 {
			names = append(names, category.Name)
		}
	}
	return strings.Join(names, "; ")
}

func extractForeignApprovals(text string, sentences []string) string {
	var approvals []string
	for _, kw := range foreignApprovalKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		if matched := sentencesWith(sentences, kw); len(matched) > 0 {
			approvals = append(approvals, cleanText(truncate(matched[0], foreignApprovalLimit)))
		}
	}
	return strings.Join(approvals, "; ")
}

func extractLicenses(text string, sentences []string) string {
	var licenses []string
	for _, kw := range licenseKeywords {
		if !strings.Contains(text, kw) {
			continue
		}
		matched := sentencesWith(sentences, kw)
		if len(matched) > licenseSentencesPerWord {
			matched = matched[:licenseSentencesPerWord]
		}
		for _, s := range matched {
			if runeLen(s) > licenseMinLength {
				licenses = append(licenses, cleanText(truncate(s, licenseLimit)))
			}
		}
	}
	return strings.Join(licenses, "; ")
}
