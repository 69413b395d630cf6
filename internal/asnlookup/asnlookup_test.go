package asnlookup

import (
	"net"
	"testing"
)

const sampleResponse = "AS | IP | BGP Prefix | CC | Registry | Allocated | AS Name\n" +
	"15169 | 8.8.8.8 | 8.8.8.0/24 | US | ARIN | 1992-12-01 | GOOGLE - Google LLC, US\n"

// startFakeWhois 启动本地whois假服务：读到查询行后写出响应并关闭连接
func startFakeWhois(t *testing.T, response string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("启动假whois服务失败: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	queries := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 256)
		n, _ := conn.Read(buf)
		queries <- string(buf[:n])
		conn.Write([]byte(response))
	}()
	return ln.Addr().String(), queries
}

func TestLookup(t *testing.T) {
	addr, queries := startFakeWhois(t, sampleResponse)
	client := NewClient()
	client.serverAddr = addr

	record, err := client.Lookup("8.8.8.8")
	if err != nil {
		t.Fatalf("Lookup 返回错误: %v", err)
	}
	if record == nil {
		t.Fatal("期望返回ASN记录, 实际为 nil")
	}

	if record.ASN != "15169" {
		t.Errorf("期望ASN为 15169, 实际得到 %s", record.ASN)
	}
	if record.ReportedIP != "8.8.8.8" {
		t.Errorf("期望IP为 8.8.8.8, 实际得到 %s", record.ReportedIP)
	}
	if record.Prefix != "8.8.8.0/24" {
		t.Errorf("期望前缀为 8.8.8.0/24, 实际得到 %s", record.Prefix)
	}
	if record.CountryCode != "US" {
		t.Errorf("期望国家代码为 US, 实际得到 %s", record.CountryCode)
	}
	if record.Registry != "ARIN" {
		t.Errorf("期望注册机构为 ARIN, 实际得到 %s", record.Registry)
	}
	if record.AllocatedDate != "1992-12-01" {
		t.Errorf("期望分配日期为 1992-12-01, 实际得到 %s", record.AllocatedDate)
	}
	if record.ASName != "GOOGLE - Google LLC, US" {
		t.Errorf("AS名称不符, 实际得到 %s", record.ASName)
	}

	if query := <-queries; query != " -v 8.8.8.8\n" {
		t.Errorf("查询行格式不符: %q", query)
	}
}

func TestLookupHeaderOnly(t *testing.T) {
	addr, _ := startFakeWhois(t, "AS | IP | BGP Prefix | CC | Registry | Allocated | AS Name\n")
	client := NewClient()
	client.serverAddr = addr

	record, err := client.Lookup("203.0.113.7")
	if err != nil {
		t.Fatalf("仅有表头不是错误, 但 Lookup 返回: %v", err)
	}
	if record != nil {
		t.Errorf("仅有表头时应返回 nil, 实际得到 %+v", record)
	}
}

func TestLookupTransportError(t *testing.T) {
	// 先占用再释放端口，保证地址不可连接
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("占用端口失败: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client := NewClient()
	client.serverAddr = addr

	if _, err := client.Lookup("8.8.8.8"); err == nil {
		t.Fatal("连接失败时应返回传输层错误")
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool // 是否期望解析出记录
	}{
		{"完整响应", sampleResponse, true},
		{"空响应", "", false},
		{"仅有表头", "AS | IP | BGP Prefix | CC | Registry | Allocated | AS Name\n", false},
		{"数据行不足7列", "AS | IP | AS Name\n15169 | 8.8.8.8 | GOOGLE\n", false},
		{"带空行和空白", "\n  AS | IP | BGP Prefix | CC | Registry | Allocated | AS Name  \n\n  15169 | 8.8.8.8 | 8.8.8.0/24 | US | ARIN | 1992-12-01 | GOOGLE - Google LLC, US  \n\n", true},
		{"多余的尾列被忽略", "h1|h2|h3|h4|h5|h6|h7\n1 | 2 | 3 | 4 | 5 | 6 | 7 | 8 | 9\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := parseResponse(tt.raw)
			if tt.want && record == nil {
				t.Fatal("期望解析出记录, 实际为 nil")
			}
			if !tt.want && record != nil {
				t.Fatalf("期望返回 nil, 实际得到 %+v", record)
			}
		})
	}
}

func TestParseResponseIgnoresLaterRows(t *testing.T) {
	raw := sampleResponse + "64512 | 10.0.0.1 | 10.0.0.0/8 | ZZ | NONE | 2000-01-01 | PRIVATE\n"
	record := parseResponse(raw)
	if record == nil {
		t.Fatal("期望解析出记录, 实际为 nil")
	}
	if record.ASN != "15169" {
		t.Errorf("应只取第一条数据行, 实际得到ASN %s", record.ASN)
	}
}
