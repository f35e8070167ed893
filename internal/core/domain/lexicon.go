package domain

import (
	"fmt"
	"strings"
)

// TransactionType maps a transaction type name to the keywords that identify it.
type TransactionType struct {
	Name     string
	Keywords []string
}

// ApprovalCategory maps a domestic approval category to its keywords.
type ApprovalCategory struct {
	Name     string
	Keywords []string
}

// Lexicon is the keyword configuration shared by the classifier and the
// extractors. Order matters in every list: first match wins.
//
// A Lexicon is built once at startup and passed by pointer to each
// component. Nothing mutates it afterwards.
type Lexicon struct {
	// Countries are recognised country and region names.
	Countries []string

	// ClearForeignCountries are names that rule out a domestic transaction
	// when they appear near a domestic place name.
	ClearForeignCountries []string

	// DomesticCities are looked for in heading regions.
	DomesticCities []string

	// DomesticProvinces are scanned for "acquire a <province> company" phrasing.
	DomesticProvinces []string

	// OverseasMarkers indicate an overseas context in body text.
	OverseasMarkers []string

	// FilenameOverseasMarkers indicate an overseas transaction in a filename.
	FilenameOverseasMarkers []string

	// CountryStripMarkers are removed from the opening lines before country
	// lookup when the filename carries an overseas marker.
	CountryStripMarkers []string

	// ExclusionKeywords trigger exclusion families in the classifier.
	ExclusionKeywords []string

	// FilenameInvestmentKeywords mark a filename as describing an investment.
	FilenameInvestmentKeywords []string

	// EquityKeywords select sentences for the equity ratio field.
	EquityKeywords []string

	TransactionTypes   []TransactionType
	ApprovalCategories []ApprovalCategory
}

// Validate checks that every list required by the classifier is populated.
func (l *Lexicon) Validate() error {
	required := map[string][]string{
		"countries":                    l.Countries,
		"domestic_cities":              l.DomesticCities,
		"domestic_provinces":           l.DomesticProvinces,
		"overseas_markers":             l.OverseasMarkers,
		"filename_overseas_markers":    l.FilenameOverseasMarkers,
		"filename_investment_keywords": l.FilenameInvestmentKeywords,
	}
	for name, list := range required {
		if len(list) == 0 {
			return fmt.Errorf("%w: lexicon list %q is empty", ErrInvalidInput, name)
		}
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: lexicon list %q contains a blank entry", ErrInvalidInput, name)
			}
		}
	}
	for _, t := range l.TransactionTypes {
		if t.Name == "" || len(t.Keywords) == 0 {
			return fmt.Errorf("%w: transaction type %q needs a name and keywords", ErrInvalidInput, t.Name)
		}
	}
	for _, c := range l.ApprovalCategories {
		if c.Name == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("%w: approval category %q needs a name and keywords", ErrInvalidInput, c.Name)
		}
	}
	return nil
}

// DefaultLexicon returns the built-in keyword configuration.
// Each call returns a fresh copy.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Countries: []string{
			// Asia
			"中国香港", "香港", "中国澳门", "澳门", "中国台湾", "台湾",
			"新加坡", "马来西亚", "印度尼西亚", "印尼", "印度", "泰国", "越南",
			"菲律宾", "柬埔寨", "老挝", "缅甸", "孟加拉国", "巴基斯坦", "斯里兰卡",
			"日本", "韩国", "蒙古", "哈萨克斯坦", "乌兹别克斯坦", "吉尔吉斯斯坦",
			"阿联酋", "阿拉伯联合酋长国", "沙特阿拉伯", "沙特", "卡塔尔", "以色列",
			"土耳其", "伊朗", "伊拉克",
			// Europe
			"德国", "法国", "英国", "意大利", "西班牙", "葡萄牙", "荷兰", "比利时",
			"卢森堡", "瑞士", "瑞典", "挪威", "芬兰", "丹麦", "奥地利", "波兰",
			"捷克", "匈牙利", "塞尔维亚", "希腊", "爱尔兰", "俄罗斯", "乌克兰",
			// Americas
			"美国", "加拿大", "墨西哥", "巴西", "阿根廷", "智利", "秘鲁",
			"哥伦比亚", "厄瓜多尔", "委内瑞拉", "玻利维亚",
			// Africa
			"南非", "埃及", "尼日利亚", "肯尼亚", "埃塞俄比亚", "坦桑尼亚",
			"赞比亚", "津巴布韦", "刚果", "几内亚", "赤道几内亚", "安哥拉", "摩洛哥",
			// Oceania
			"澳大利亚", "新西兰", "巴布亚新几内亚",
			// Offshore
			"开曼群岛", "英属维尔京群岛", "百慕大",
			// English names
			"Hong Kong", "Singapore", "Malaysia", "Indonesia", "India", "Thailand",
			"Vietnam", "Japan", "Korea", "Kazakhstan", "Germany", "France",
			"United Kingdom", "Italy", "Spain", "Netherlands", "Switzerland",
			"Sweden", "Russia", "United States", "Canada", "Mexico", "Brazil",
			"Argentina", "Chile", "Peru", "South Africa", "Egypt", "Australia",
			"New Zealand", "Cayman Islands",
		},
		ClearForeignCountries: []string{
			"美国", "德国", "法国", "英国", "阿根廷", "越南", "哈萨克斯坦", "南非", "秘鲁", "俄罗斯",
		},
		DomesticCities: []string{
			"上海", "北京", "广州", "深圳", "青岛", "天津",
		},
		DomesticProvinces: []string{
			"浙江", "江苏", "广东", "福建", "山东", "四川", "湖北", "上海", "北京",
			"广州", "深圳", "青岛", "天津", "重庆", "河北", "河南", "湖南", "安徽",
			"江西", "山西", "陕西", "内蒙古", "辽宁", "吉林", "黑龙江", "海南",
			"广西", "云南", "贵州", "西藏", "甘肃", "青海", "宁夏", "新疆",
		},
		OverseasMarkers:         []string{"境外", "海外", "国外", "外"},
		FilenameOverseasMarkers: []string{"海外", "对外投资", "国外", "境外", "overseas"},
		CountryStripMarkers:     []string{"海外", "国外", "外"},
		ExclusionKeywords: []string{
			"境外生产药品", "境外注册",
			"运营数据", "运营情况", "财务数据",
			"出口贸易", "出口产品",
			"自愿性信息披露",
		},
		FilenameInvestmentKeywords: []string{
			"投资", "收购", "并购", "股权", "股份", "设立", "成立", "放款", "借款",
			"融资", "建设", "新建", "合资", "出让", "债权", "资产权益",
			"acquisition", "acquire", "acquiring", "invest", "equity", "stake",
			"shares", "joint venture", "subsidiary",
		},
		EquityKeywords: []string{"股权", "股份", "持股", "equity", "stake"},
		TransactionTypes: []TransactionType{
			{Name: "股权收购", Keywords: []string{"收购", "并购", "购买股权", "受让股权", "acquisition", "acquire"}},
			{Name: "新设投资", Keywords: []string{"设立", "新设", "成立", "投资设立", "establish"}},
			{Name: "增资", Keywords: []string{"增资", "追加投资", "capital increase"}},
			{Name: "合资合作", Keywords: []string{"合资", "合作经营", "joint venture"}},
			{Name: "项目建设", Keywords: []string{"建设", "新建", "扩建", "投资建设"}},
			{Name: "境外放款", Keywords: []string{"放款", "借款", "委托贷款"}},
			{Name: "债权/资产收购", Keywords: []string{"债权", "资产权益", "资产收购"}},
			{Name: "股权出售", Keywords: []string{"出让", "出售", "转让"}},
		},
		ApprovalCategories: []ApprovalCategory{
			{Name: "发改委备案/核准", Keywords: []string{"发改委", "发展改革委", "发展和改革委员会", "发展改革部门"}},
			{Name: "商务部门备案", Keywords: []string{"商务部", "商务主管部门", "商务厅", "商务局", "企业境外投资证书"}},
			{Name: "外汇登记", Keywords: []string{"外汇管理", "外汇登记", "ODI登记", "银行办理"}},
			{Name: "国资审批", Keywords: []string{"国资委", "国有资产监督管理"}},
			{Name: "股东大会审议", Keywords: []string{"股东大会", "股东会"}},
			{Name: "董事会审议", Keywords: []string{"董事会"}},
			{Name: "证券监管", Keywords: []string{"证监会", "证券交易所"}},
		},
	}
}
