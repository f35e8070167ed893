package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// omittedMarker is appended to a document preview that was cut short.
const omittedMarker = "\n...[中间内容省略]..."

// countryUnspecified stands in for a missing target country in prompts.
const countryUnspecified = "未明确"

// fieldDescriptions tell the model what each requested field means.
// Filename-derived fields are not requested; rule values replace them.
var fieldDescriptions = map[string]string{
	domain.FieldTargetCountry:   "目标公司注册的国家/地区",
	domain.FieldTargetCompany:   "完整的公司名称或项目名称（包括外文原名）",
	domain.FieldTransactionType: "收购股权、设立子公司、境外放款、增资等",
	domain.FieldAmount:          "交易金额或投资额，保留单位（如：7,319万元、1.25亿美元）",
	domain.FieldEquityRatio:     "涉及的股权比例（如：100%、51%）",
	domain.FieldCounterparty:    "交易对手方名称",
	domain.FieldProgressStage:   "交易当前进展状态（如：已通过审议、已签署协议、已完成交割、拟进行）",
	domain.FieldBusinessScope:   "目标公司的主要业务范围",

	domain.FieldInvestmentEntity:        "实施投资的公司或子公司名称",
	domain.FieldSPVStructure:            "特殊目的公司结构描述",
	domain.FieldFundingSource:           "资金来源（如：自有资金、募集资金、银行贷款）",
	domain.FieldPaymentMethod:           "支付方式（如：现金、股权置换）",
	domain.FieldEarnOut:                 "对赌协议或业绩承诺内容",
	domain.FieldTransactionArchitecture: "完整的交易架构描述",

	domain.FieldDomesticApprovals: "需要办理的境内审批（如：发改委、商务部、外汇局）",
	domain.FieldForeignApprovals:  "需要办理的境外审批（如：反垄断审查、外商投资审查）",
	domain.FieldApprovalProgress:  "当前审批进度",
	domain.FieldApprovalConditions: "交易的先决条件和审批条件（如：需获得备案批准、满足交割前提等。" +
		"如无特殊审批条件，请根据实际情况标注\"新设公司，不涉及\"或\"未明确\"或\"人工确认\"）",
	domain.FieldClosingConditions: "交易完成的条件",
	domain.FieldSpecialLicenses: "需要的特殊牌照或许可（如：经营牌照、行业资质、许可证、特许经营权等。" +
		"如无特殊许可要求，请根据实际情况标注\"新设公司，不涉及\"或\"无需特殊许可\"或\"未明确\"或\"人工确认\"）",
}

const extractionRules = `提取要求：
1. 如果文本中没有明确提及某个字段，返回空字符串 ""
2. "progress_stage" 字段要准确提取状态描述，不要提取百分比（如100%、99.9%）
3. "target_company" 要提取完整的外文名称，包括公司类型后缀（如GmbH、Corp、Inc、Ltd），不要提取描述性简称（如"紧固件德国公司"）
4. "business_scope" 必须是目标公司（标的公司/被收购方）的主要业务范围，不要提取投资方（我司、本公司）的业务范围。如果只提到了投资方的业务范围（如"我司是从事贸易类..."），该字段应返回空字符串 ""
5. 空值处理：对于 "approval_conditions" 和 "special_licenses" 字段，如果文本中确实没有相关要求，应根据实际情况标注：
   - 如果是新设立的公司，标注："新设公司，不涉及"
   - 如果交易是简单的股权收购/增资/放款，标注："无需特殊许可"或"不涉及"
   - 如果确实未提及或情况不明，标注："未明确"或"人工确认"
   - 不要直接返回空字符串""，请提供有意义的标注
6. 金额和比例要保留原文格式
7. 只返回标准的JSON对象，不要有其他说明文字
`

// PromptBuilder renders extraction prompts.
type PromptBuilder struct {
	prompts  driven.PromptStore
	maxChars int
	schema   string
}

// NewPromptBuilder creates a prompt builder. maxChars bounds the document
// preview; zero or less uses the default.
func NewPromptBuilder(prompts driven.PromptStore, maxChars int) *PromptBuilder {
	if maxChars <= 0 {
		maxChars = domain.DefaultMaxTextChars
	}
	return &PromptBuilder{
		prompts:  prompts,
		maxChars: maxChars,
		schema:   renderSchema(),
	}
}

// Build renders the user prompt for one document.
func (b *PromptBuilder) Build(doc domain.Document, cls domain.ClassificationResult) string {
	preview := doc.Text
	if runeLen(preview) > b.maxChars {
		preview = truncate(preview, b.maxChars) + omittedMarker
	}

	country := cls.TargetCountry
	if country == "" {
		country = countryUnspecified
	}

	var sb strings.Builder
	sb.WriteString("请从以下境外投资交易公告文本中提取结构化信息。\n\n")
	fmt.Fprintf(&sb, "文件名: %s\n", doc.Filename)
	fmt.Fprintf(&sb, "目标国家/地区: %s\n\n", country)
	sb.WriteString("=== 公告文本 ===\n")
	sb.WriteString(preview)
	sb.WriteString("\n=== 文本结束 ===\n\n")
	sb.WriteString("请提取以下信息，并以JSON格式返回：\n\n")
	sb.WriteString(b.schema)
	sb.WriteString("\n")
	sb.WriteString(extractionRules)
	return sb.String()
}

// SystemPrompt returns the extraction system prompt.
func (b *PromptBuilder) SystemPrompt() (string, error) {
	if b.prompts == nil {
		return "", nil
	}
	p, err := b.prompts.Load(driven.PromptExtractionSystem)
	if err != nil {
		return "", fmt.Errorf("load system prompt: %w", err)
	}
	return p, nil
}

// renderSchema writes the nested JSON skeleton the model must fill in,
// following the record's group and field order.
func renderSchema() string {
	filenameFields := make(map[string]bool, len(domain.FilenameFieldKeys))
	for _, k := range domain.FilenameFieldKeys {
		filenameFields[k] = true
	}

	var rec domain.ExtractionRecord
	groups := rec.Groups()

	var sb strings.Builder
	sb.WriteString("{\n")
	for gi, g := range groups {
		fmt.Fprintf(&sb, "    %q: {\n", g.Key)

		var lines []string
		for _, f := range g.Fields {
			if filenameFields[f.Key] {
				continue
			}
			lines = append(lines, fmt.Sprintf("        %q: %q", f.Key, f.Label+"："+fieldDescriptions[f.Key]))
		}
		sb.WriteString(strings.Join(lines, ",\n"))
		sb.WriteString("\n    }")
		if gi < len(groups)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
