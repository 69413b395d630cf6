package model

import "time"

// 端口探测状态
const (
	StateOpen    = "open"
	StateClosed  = "closed"
	StateTimeout = "timeout"
	StateError   = "error"
)

// ProbeTarget 探测目标
type ProbeTarget struct {
	Host    string        `json:"host"`
	Port    int           `json:"port"`
	Timeout time.Duration `json:"timeout"`
}

// ResolvedEndpoint 解析完成的目标端点，创建后不再修改
type ResolvedEndpoint struct {
	OriginalHost string `json:"original_host"`
	IP           string `json:"ip"`
}

// ProbeOutcome 单次TCP探测的结果
type ProbeOutcome struct {
	State   string        `json:"state"` // open, closed, timeout, error
	Reason  string        `json:"reason,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Open 端口是否开放
func (po ProbeOutcome) Open() bool {
	return po.State == StateOpen
}

// AsnRecord IP所属自治系统的登记信息
type AsnRecord struct {
	ASN           string `json:"asn"`
	ReportedIP    string `json:"reported_ip"`
	Prefix        string `json:"prefix"`
	CountryCode   string `json:"country_code"`
	Registry      string `json:"registry"`
	AllocatedDate string `json:"allocated_date"`
	ASName        string `json:"as_name"`
}

// DiagnosticResult 一次完整诊断的汇总结果，交给格式化器渲染
type DiagnosticResult struct {
	Endpoint ResolvedEndpoint `json:"endpoint"`
	Port     int              `json:"port"`
	Outcome  ProbeOutcome     `json:"outcome"`
	AsnAsked bool             `json:"asn_asked"`
	Asn      *AsnRecord       `json:"asn,omitempty"`
	AsnErr   string           `json:"asn_err,omitempty"` // 传输层失败的诊断信息
	Elapsed  string           `json:"elapsed"`
}

// DiagnosticOptions 命令行选项
type DiagnosticOptions struct {
	Host      string
	Port      int
	Timeout   time.Duration
	LookupAsn bool
	Verbose   bool
}
