package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"ZhaoYaoJing/internal/model"
)

type OutputFormatter struct{}

func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// PrintResult 输出诊断报告
func (of *OutputFormatter) PrintResult(w io.Writer, result model.DiagnosticResult) {
	fmt.Fprint(w, of.FormatResult(result))
}

// FormatResult 渲染诊断报告文本
func (of *OutputFormatter) FormatResult(result model.DiagnosticResult) string {
	var builder strings.Builder

	builder.WriteString("\n🔮 照妖镜端口诊断 v1.0\n")
	builder.WriteString(strings.Repeat("═", 60) + "\n")
	builder.WriteString(fmt.Sprintf("目标: %s (%s)\n", result.Endpoint.OriginalHost, result.Endpoint.IP))
	builder.WriteString(fmt.Sprintf("耗时: %s\n\n", result.Elapsed))

	builder.WriteString(of.formatOutcome(result.Port, result.Outcome))

	if result.AsnAsked {
		builder.WriteString("\n")
		builder.WriteString(of.formatAsn(result))
	}

	return builder.String()
}

// formatOutcome 渲染端口状态行
func (of *OutputFormatter) formatOutcome(port int, outcome model.ProbeOutcome) string {
	var stateIcon, stateText string
	switch outcome.State {
	case model.StateOpen:
		stateIcon = "🟢"
		stateText = color.FgLightGreen.Render("开放")
	case model.StateClosed:
		stateIcon = "🔴"
		stateText = color.FgLightRed.Render("关闭")
	case model.StateTimeout:
		stateIcon = "🟡"
		stateText = color.FgYellow.Render("超时")
	default:
		stateIcon = "⚪"
		stateText = color.FgLightRed.Render("错误")
	}

	line := fmt.Sprintf("%s 端口 %d: %s", stateIcon, port, stateText)
	if outcome.Reason != "" {
		line += fmt.Sprintf(" (%s)", outcome.Reason)
	}
	return line + "\n"
}

// formatAsn 渲染自治系统信息块
func (of *OutputFormatter) formatAsn(result model.DiagnosticResult) string {
	var builder strings.Builder

	builder.WriteString("🌐 自治系统信息:\n")
	builder.WriteString(strings.Repeat("─", 60) + "\n")

	if result.AsnErr != "" {
		builder.WriteString("❌ ASN查询失败（详见错误输出）\n")
		return builder.String()
	}
	if result.Asn == nil {
		builder.WriteString(fmt.Sprintf("未查询到 %s 的ASN信息\n", result.Endpoint.IP))
		return builder.String()
	}

	record := result.Asn
	builder.WriteString(fmt.Sprintf("AS号 (ASN):           %s\n", record.ASN))
	builder.WriteString(fmt.Sprintf("AS名称 (AS Name):     %s\n", record.ASName))
	builder.WriteString(fmt.Sprintf("BGP前缀 (Prefix):     %s\n", record.Prefix))
	builder.WriteString(fmt.Sprintf("国家代码 (CC):        %s\n", record.CountryCode))
	builder.WriteString(fmt.Sprintf("注册机构 (Registry):  %s\n", record.Registry))
	builder.WriteString(fmt.Sprintf("分配日期 (Allocated): %s\n", record.AllocatedDate))
	return builder.String()
}
