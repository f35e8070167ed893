package domain

// Field keys of BasicInfo.
const (
	FieldStockCode       = "stock_code"
	FieldCompanyName     = "company_name"
	FieldAnnounceDate    = "announce_date"
	FieldFileName        = "file_name"
	FieldTargetCountry   = "target_country"
	FieldTargetCompany   = "target_company"
	FieldTransactionType = "transaction_type"
	FieldAmount          = "amount"
	FieldEquityRatio     = "equity_ratio"
	FieldCounterparty    = "counterparty"
	FieldProgressStage   = "progress_stage"
	FieldBusinessScope   = "business_scope"
)

// Field keys of Structure.
const (
	FieldInvestmentEntity        = "investment_entity"
	FieldSPVStructure            = "spv_structure"
	FieldFundingSource           = "funding_source"
	FieldPaymentMethod           = "payment_method"
	FieldEarnOut                 = "earn_out"
	FieldTransactionArchitecture = "transaction_architecture"
)

// Field keys of Approvals.
const (
	FieldDomesticApprovals  = "domestic_approvals"
	FieldForeignApprovals   = "foreign_approvals"
	FieldApprovalProgress   = "approval_progress"
	FieldApprovalConditions = "approval_conditions"
	FieldClosingConditions  = "closing_conditions"
	FieldSpecialLicenses    = "special_licenses"
)

// Group keys of an ExtractionRecord.
const (
	GroupBasicInfo = "basic_info"
	GroupStructure = "structure"
	GroupApprovals = "approvals"
)

// Field is a named, addressable value inside a record group.
type Field struct {
	// Key is the stable snake_case identifier used in JSON.
	Key string

	// Label is the column heading used in exported tables.
	Label string

	// Value points at the backing struct field.
	Value *string
}

// Group is an ordered set of fields.
type Group struct {
	Key    string
	Label  string
	Fields []Field
}

// Lookup returns the field with the given key.
func (g Group) Lookup(key string) (Field, bool) {
	for _, f := range g.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// BasicInfo holds identification and headline deal terms.
type BasicInfo struct {
	StockCode       string `json:"stock_code"`
	CompanyName     string `json:"company_name"`
	AnnounceDate    string `json:"announce_date"`
	FileName        string `json:"file_name"`
	TargetCountry   string `json:"target_country"`
	TargetCompany   string `json:"target_company"`
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	EquityRatio     string `json:"equity_ratio"`
	Counterparty    string `json:"counterparty"`
	ProgressStage   string `json:"progress_stage"`
	BusinessScope   string `json:"business_scope"`
}

// Fields returns the group's fields in export order.
func (b *BasicInfo) Fields() []Field {
	return []Field{
		{Key: FieldStockCode, Label: "股票代码", Value: &b.StockCode},
		{Key: FieldCompanyName, Label: "公司名称", Value: &b.CompanyName},
		{Key: FieldAnnounceDate, Label: "公告日期", Value: &b.AnnounceDate},
		{Key: FieldFileName, Label: "文件名称", Value: &b.FileName},
		{Key: FieldTargetCountry, Label: "标的公司注册地", Value: &b.TargetCountry},
		{Key: FieldTargetCompany, Label: "标的公司/项目名称", Value: &b.TargetCompany},
		{Key: FieldTransactionType, Label: "交易类型", Value: &b.TransactionType},
		{Key: FieldAmount, Label: "交易金额/投资额", Value: &b.Amount},
		{Key: FieldEquityRatio, Label: "股权比例", Value: &b.EquityRatio},
		{Key: FieldCounterparty, Label: "交易对手方", Value: &b.Counterparty},
		{Key: FieldProgressStage, Label: "当前进展阶段", Value: &b.ProgressStage},
		{Key: FieldBusinessScope, Label: "业务范围", Value: &b.BusinessScope},
	}
}

// Structure describes how the deal is organised and paid for.
type Structure struct {
	InvestmentEntity        string `json:"investment_entity"`
	SPVStructure            string `json:"spv_structure"`
	FundingSource           string `json:"funding_source"`
	PaymentMethod           string `json:"payment_method"`
	EarnOut                 string `json:"earn_out"`
	TransactionArchitecture string `json:"transaction_architecture"`
}

// Fields returns the group's fields in export order.
func (s *Structure) Fields() []Field {
	return []Field{
		{Key: FieldInvestmentEntity, Label: "投资主体", Value: &s.InvestmentEntity},
		{Key: FieldSPVStructure, Label: "SPV结构", Value: &s.SPVStructure},
		{Key: FieldFundingSource, Label: "资金来源", Value: &s.FundingSource},
		{Key: FieldPaymentMethod, Label: "支付方式", Value: &s.PaymentMethod},
		{Key: FieldEarnOut, Label: "对赌/业绩承诺", Value: &s.EarnOut},
		{Key: FieldTransactionArchitecture, Label: "交易架构", Value: &s.TransactionArchitecture},
	}
}

// Approvals lists regulatory approvals and deal conditions.
type Approvals struct {
	DomesticApprovals  string `json:"domestic_approvals"`
	ForeignApprovals   string `json:"foreign_approvals"`
	ApprovalProgress   string `json:"approval_progress"`
	ApprovalConditions string `json:"approval_conditions"`
	ClosingConditions  string `json:"closing_conditions"`
	SpecialLicenses    string `json:"special_licenses"`
}

// Fields returns the group's fields in export order.
func (a *Approvals) Fields() []Field {
	return []Field{
		{Key: FieldDomesticApprovals, Label: "境内审批事项", Value: &a.DomesticApprovals},
		{Key: FieldForeignApprovals, Label: "境外审批事项", Value: &a.ForeignApprovals},
		{Key: FieldApprovalProgress, Label: "审批进度", Value: &a.ApprovalProgress},
		{Key: FieldApprovalConditions, Label: "审批条件", Value: &a.ApprovalConditions},
		{Key: FieldClosingConditions, Label: "交割条件", Value: &a.ClosingConditions},
		{Key: FieldSpecialLicenses, Label: "特殊许可", Value: &a.SpecialLicenses},
	}
}

// ExtractionRecord holds the structured fields for one accepted document.
// All three groups are always present; unset fields are empty strings or
// an explicit sentinel, never absent.
type ExtractionRecord struct {
	BasicInfo BasicInfo `json:"basic_info"`
	Structure Structure `json:"structure"`
	Approvals Approvals `json:"approvals"`
}

// Groups returns the record's groups in export order. The returned fields
// point into r, so writes through them modify the record.
func (r *ExtractionRecord) Groups() []Group {
	return []Group{
		{Key: GroupBasicInfo, Label: "基本信息", Fields: r.BasicInfo.Fields()},
		{Key: GroupStructure, Label: "交易结构", Fields: r.Structure.Fields()},
		{Key: GroupApprovals, Label: "审批事项", Fields: r.Approvals.Fields()},
	}
}

// FieldCount returns the total number of fields across all groups.
func (r *ExtractionRecord) FieldCount() int {
	n := 0
	for _, g := range r.Groups() {
		n += len(g.Fields)
	}
	return n
}

// FilenameFieldKeys are the BasicInfo fields derived from the filename alone.
// Rule values for these always win over model output.
var FilenameFieldKeys = []string{
	FieldStockCode,
	FieldCompanyName,
	FieldAnnounceDate,
	FieldFileName,
}
