package diagnose

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"ZhaoYaoJing/internal/asnlookup"
	"ZhaoYaoJing/internal/model"
	"ZhaoYaoJing/internal/prober"
	"ZhaoYaoJing/internal/resolver"
	"ZhaoYaoJing/internal/utils"
	"ZhaoYaoJing/pkg/cli"
)

// AsnLookuper ASN查询能力
type AsnLookuper interface {
	Lookup(ip string) (*model.AsnRecord, error)
}

// Runner 按 解析 → (探测 ∥ ASN查询) → 报告 的顺序执行一次诊断
type Runner struct {
	opts   model.DiagnosticOptions
	logger *utils.Logger
	out    io.Writer

	// 测试时可替换的三个叶子能力
	resolve func(host string) (model.ResolvedEndpoint, error)
	probe   func(ctx context.Context, ip string, port int) model.ProbeOutcome
	asn     AsnLookuper
}

func NewRunner(opts model.DiagnosticOptions) *Runner {
	return &Runner{
		opts:    opts,
		logger:  utils.NewLogger("diagnose"),
		out:     os.Stdout,
		resolve: resolver.Resolve,
		probe:   prober.New(opts.Timeout).Probe,
		asn:     asnlookup.NewClient(),
	}
}

// Run 执行一次诊断并返回进程退出码。
// 退出码只由端口探测结果决定：开放为0，其余为1；
// 解析失败直接返回1，不再执行探测和查询；
// ASN查询的传输层失败只记录诊断信息，不影响退出码。
func (r *Runner) Run() int {
	start := time.Now()

	endpoint, err := r.resolve(r.opts.Host)
	if err != nil {
		r.logger.Error("%v", err)
		return 1
	}
	if r.opts.Verbose {
		r.logger.Info("目标 %s 解析为 %s", endpoint.OriginalHost, endpoint.IP)
	}

	result := model.DiagnosticResult{
		Endpoint: endpoint,
		Port:     r.opts.Port,
		AsnAsked: r.opts.LookupAsn,
	}

	// 探测与ASN查询互不依赖，并发执行，各写各的结果槽；
	// 两者全部结束后才进入报告阶段，任何一方失败都不能压掉另一方的结果
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result.Outcome = r.probe(context.Background(), endpoint.IP, r.opts.Port)
	}()
	if r.opts.LookupAsn {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := r.asn.Lookup(endpoint.IP)
			if err != nil {
				result.AsnErr = err.Error()
				return
			}
			result.Asn = record
		}()
	}
	wg.Wait()

	result.Elapsed = time.Since(start).String()

	formatter := cli.NewOutputFormatter()
	formatter.PrintResult(r.out, result)
	if result.AsnErr != "" {
		r.logger.Warn("ASN查询失败: %s", result.AsnErr)
	}

	if result.Outcome.Open() {
		return 0
	}
	return 1
}
