package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"ZhaoYaoJing/internal/model"
)

// Parser 解析命令行参数
type Parser struct {
	Options model.DiagnosticOptions
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse 解析 [--asn] [-timeout 3s] [-verbose] <主机> <端口> 形式的参数
// （args 不含程序名）。参数不合法时返回错误，此时不发起任何网络请求。
func (p *Parser) Parse(args []string) error {
	fs := flag.NewFlagSet("zhaoyaojing", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&p.Options.LookupAsn, "asn", false, "同时查询IP所属自治系统信息")
	fs.DurationVar(&p.Options.Timeout, "timeout", 3*time.Second, "TCP连接超时时间")
	fs.BoolVar(&p.Options.Verbose, "verbose", false, "显示详细信息")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 2 {
		return fmt.Errorf("必须指定目标主机和端口")
	}
	p.Options.Host = fs.Arg(0)

	port, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("无效的端口号: %s", fs.Arg(1))
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("端口号必须在 1-65535 之间: %d", port)
	}
	p.Options.Port = port

	if p.Options.Timeout <= 0 {
		return fmt.Errorf("超时时间必须大于0")
	}

	return nil
}

// PrintUsage 打印使用说明
func (p *Parser) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "照妖镜 - TCP端口可达性与ASN归属诊断工具")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "使用方法: zhaoyaojing [选项] <主机> <端口>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "选项:")
	fmt.Fprintln(w, "  --asn               同时查询IP所属自治系统信息")
	fmt.Fprintln(w, "  -timeout duration   TCP连接超时时间 (默认: 3s)")
	fmt.Fprintln(w, "  -verbose            显示详细信息")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "示例:")
	fmt.Fprintln(w, "  zhaoyaojing example.com 443")
	fmt.Fprintln(w, "  zhaoyaojing --asn -timeout 5s 8.8.8.8 53")
}
