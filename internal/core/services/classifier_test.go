package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

const e2eFilename = "600123 SomeGroup 2023-05-10 announcement on acquiring 51% equity of German ABC GmbH.pdf"

const e2eText = "SomeGroup Co., Ltd. Announcement\n" +
	"The Company plans to acquire 51% equity of ABC GmbH, a company incorporated in Germany.\n" +
	"The consideration is EUR 20 million and will be paid in cash.\n"

func newTestClassifier() *Classifier {
	return NewClassifier(domain.DefaultLexicon(), nil)
}

func TestClassifier_EmptyText(t *testing.T) {
	c := newTestClassifier()

	for _, doc := range []domain.Document{
		{Filename: "600000 某某 2023-01-01 关于境外投资的公告.txt"},
		{Filename: "a.txt", Text: "  \n\t "},
		{Filename: "b.txt", ParseSuccess: false},
	} {
		result := c.Classify(doc)
		assert.False(t, result.IsODI)
		assert.Equal(t, ReasonNoText, result.Reason)
		assert.Empty(t, result.ExclusionReason)
		assert.Empty(t, result.TargetCountry)
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	c := newTestClassifier()
	doc := domain.Document{Filename: e2eFilename, Text: e2eText, ParseSuccess: true}

	first := c.Classify(doc)
	for range 5 {
		assert.Equal(t, first, c.Classify(doc))
	}
}

func TestClassifier_PrefersLongestCountry(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"chinese", "公司拟在印度尼西亚设立子公司，从事镍矿加工。", "印度尼西亚"},
		{"english", "The Company will establish a subsidiary in Indonesia.", "Indonesia"},
		{"shorter only", "公司拟在印度设立子公司。", "印度"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(domain.Document{
				Filename: "000001 某某 2023-01-01 关于投资设立子公司的公告.txt",
				Text:     tt.text,
			})
			require.True(t, result.IsODI, result.Reason)
			assert.Equal(t, tt.want, result.TargetCountry)
		})
	}
}

func TestClassifier_EndToEndAcceptance(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{Filename: e2eFilename, Text: e2eText, ParseSuccess: true})

	assert.True(t, result.IsODI)
	assert.Equal(t, "Germany", result.TargetCountry)
	assert.Equal(t, "确认为境外投资交易（目标国家/地区：Germany）", result.Reason)
	assert.Empty(t, result.ExclusionReason)
}

func TestClassifier_Exclusions(t *testing.T) {
	c := newTestClassifier()
	const plainName = "600000 某某 2023-01-01 公告.txt"

	tests := []struct {
		name      string
		filename  string
		text      string
		exclusion string
	}{
		{
			name:      "cross-border phrase with domestic heading and unclear country",
			filename:  plainName,
			text:      "上海某某股份有限公司\n关于境外投资的公告\n公司拟在印度尼西亚投资设立子公司。",
			exclusion: ExclusionDomestic,
		},
		{
			name:      "acquiring a provincial company",
			filename:  plainName,
			text:      "公司拟以现金方式收购浙江某某科技有限公司51%股权。",
			exclusion: "境内交易（收购浙江公司）",
		},
		{
			name:      "drug registration",
			filename:  plainName,
			text:      "公司收到境外生产药品注册批准通知书。",
			exclusion: ExclusionDrugApproval,
		},
		{
			name:      "operating data",
			filename:  plainName,
			text:      "现将公司2023年5月运营数据公告如下。",
			exclusion: ExclusionOperatingData,
		},
		{
			name:      "export trade",
			filename:  plainName,
			text:      "公司主要从事出口贸易，产品销往越南。",
			exclusion: ExclusionExportTrade,
		},
		{
			name:      "voluntary disclosure",
			filename:  plainName,
			text:      "本公告为自愿性信息披露，公司与美国客户签订销售合同。",
			exclusion: ExclusionVoluntary,
		},
		{
			name:      "negative overseas wording",
			filename:  plainName,
			text:      "公司境外业务仅占营业收入的5%，本次与德国客户签订销售框架协议。",
			exclusion: ExclusionNotOverseas,
		},
		{
			name:      "domestic city in title",
			filename:  "000001 某某 2023-01-01 关于签订合同的公告.txt",
			text:      "北京某某科技股份有限公司\n关于签订日常经营合同的公告\n本次合同金额1,000万元。",
			exclusion: ExclusionDomestic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(domain.Document{Filename: tt.filename, Text: tt.text})
			assert.False(t, result.IsODI)
			assert.Equal(t, tt.exclusion, result.ExclusionReason)
			assert.Equal(t, "被排除："+tt.exclusion, result.Reason)
			assert.Empty(t, result.TargetCountry)
		})
	}
}

func TestClassifier_CrossBorderPhraseWithClearForeignCountry(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "600000 某某 2023-01-01 公告.txt",
		Text:     "上海某某股份有限公司\n关于境外投资的公告\n公司拟在美国投资设立子公司。",
	})

	assert.True(t, result.IsODI, result.Reason)
	assert.Equal(t, "美国", result.TargetCountry)
}

func TestClassifier_ProvinceNearClearForeignCountryIsKept(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "600000 某某 2023-01-01 关于收购股权的公告.txt",
		Text:     "公司全资子公司浙江某某拟收购德国某某公司100%股权。",
	})

	assert.Empty(t, result.ExclusionReason)
	assert.True(t, result.IsODI, result.Reason)
	assert.Equal(t, "德国", result.TargetCountry)
}

func TestClassifier_NoCountry(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "000001 某某 2023-01-01 关于投资设立子公司的公告.txt",
		Text:     "公司拟使用自有资金投资设立全资子公司。",
	})

	assert.False(t, result.IsODI)
	assert.Equal(t, ReasonNoCountry, result.Reason)
	assert.Empty(t, result.ExclusionReason)
	assert.Empty(t, result.TargetCountry)
}

func TestClassifier_FilenameMarkerWithoutCountry(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "000001 某某 2023-01-01 关于海外投资的公告.txt",
		Text:     "公司拟使用自有资金进行投资。",
	})

	assert.True(t, result.IsODI)
	assert.Equal(t, domain.TargetCountryUnspecified, result.TargetCountry)
	assert.Equal(t, ReasonFilenameMarker, result.Reason)
}

func TestClassifier_CountryButNotInvestment(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "000001 某某 2023-01-01 关于签订销售合同的公告.txt",
		Text:     "公司与越南客户签订销售合同。",
	})

	assert.False(t, result.IsODI)
	assert.Equal(t, "发现境外标识但非投资类交易（国家：越南）", result.Reason)
	assert.Empty(t, result.TargetCountry)
	assert.Empty(t, result.ExclusionReason)
}

func TestClassifier_CountryFromFilenameWins(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "000001 某某 2023-01-01 关于在泰国投资建设工厂的公告.txt",
		Text:     "公司拟投资建设生产基地，项目位于马来西亚边境附近。",
	})

	require.True(t, result.IsODI, result.Reason)
	assert.Equal(t, "泰国", result.TargetCountry)
}

func TestClassifier_BodyInvestmentPattern(t *testing.T) {
	result := newTestClassifier().Classify(domain.Document{
		Filename: "000001 某某 2023-01-01 关于重大事项的公告.txt",
		Text:     "公司拟收购新加坡某某私人有限公司60%股权。",
	})

	require.True(t, result.IsODI, result.Reason)
	assert.Equal(t, "新加坡", result.TargetCountry)
}

func TestClassifier_ClassifyBatch(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := NewClassifier(domain.DefaultLexicon(), zap.New(core))

	results := c.ClassifyBatch([]domain.Document{
		{Filename: e2eFilename, Text: e2eText},
		{Filename: "x.txt", Text: "本公告为自愿性信息披露。"},
		{Filename: "y.txt"},
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].IsODI)
	assert.True(t, results[1].Excluded())
	assert.Equal(t, ReasonNoText, results[2].Reason)

	entries := logs.FilterMessage("classification complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["odi"])
	assert.EqualValues(t, 1, fields["excluded"])
	assert.EqualValues(t, 1, fields["other"])
}
