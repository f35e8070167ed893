package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/odiscan/internal/adapters/driven/source/filesystem"
)

const (
	acceptedFilename = "603000 某某股份 2023-06-01 关于收购德国ABC有限公司股权的公告.txt"
	acceptedText     = "浙江某某股份有限公司关于收购德国ABC有限公司股权的公告\n" +
		"本公司拟以自有资金收购德国ABC有限公司51%股权，交易对价为1.25亿欧元。\n" +
		"交易对方：XYZ Holding GmbH\n" +
		"标的公司主要从事汽车零部件的研发、生产和销售。\n" +
		"本次交易需经国家发展改革委、商务部门备案及外汇管理部门登记，尚需提交股东大会审议。\n" +
		"本次交易尚需通过德国反垄断审查。\n"

	excludedFilename = "600001 甲公司 2024-01-02 关于境外生产药品获批的公告.txt"
	excludedText     = "公司境外生产药品获得美国FDA批准。"
)

// resetFlags restores every package-level flag variable.
func resetFlags() {
	verbose = false
	configDir = ""
	ruleOnly = false
	runOutput = ""
	runFormat = ""
	runMetricsFile = ""
	classifyJSON = false
	configInitForce = false
	watchSettle = filesystem.DefaultSettle
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// newConfigDir writes a config that keeps the model off and the cache in memory.
func newConfigDir(t *testing.T) string {
	t.Helper()
	t.Setenv("ODISCAN_LLM_ENABLED", "false")

	dir := t.TempDir()
	config := `[llm]
enabled = false

[cache]
enabled = true
backend = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0600))
	return dir
}

// newDocsDir writes one accepted and one excluded announcement.
func newDocsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, acceptedFilename), []byte(acceptedText), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, excludedFilename), []byte(excludedText), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0644))
	return dir
}
