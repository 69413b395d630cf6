package asnlookup

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"ZhaoYaoJing/internal/model"
	"ZhaoYaoJing/internal/utils"
)

// Team Cymru whois服务的协议常量，不可配置
const (
	DefaultServerAddr = "whois.cymru.com:43"
	queryVerb         = " -v"
	fieldCount        = 7
)

// Client 查询IP所属自治系统信息的whois客户端
type Client struct {
	serverAddr  string
	dialTimeout time.Duration
	readCeiling time.Duration
	logger      *utils.Logger
}

func NewClient() *Client {
	return &Client{
		serverAddr:  DefaultServerAddr,
		dialTimeout: 10 * time.Second,
		readCeiling: 15 * time.Second,
		logger:      utils.NewLogger("asnlookup"),
	}
}

// Lookup 查询IP的ASN归属。
// 远端返回空表或格式异常时返回 (nil, nil)，只有传输层失败才返回错误。
// IPv6地址原样发给远端，不做校验。
func (c *Client) Lookup(ip string) (*model.AsnRecord, error) {
	conn, err := net.DialTimeout("tcp", c.serverAddr, c.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("连接whois服务 %s 失败: %w", c.serverAddr, err)
	}
	defer conn.Close()

	// 远端以关闭连接表示响应结束，没有长度框架，用绝对截止时间兜底
	if err := conn.SetDeadline(time.Now().Add(c.readCeiling)); err != nil {
		return nil, fmt.Errorf("设置读取截止时间失败: %w", err)
	}

	if _, err := fmt.Fprintf(conn, "%s %s\n", queryVerb, ip); err != nil {
		return nil, fmt.Errorf("发送whois查询失败: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("读取whois响应失败: %w", err)
	}

	record := parseResponse(string(raw))
	if record == nil {
		c.logger.Debug("whois未返回 %s 的可解析记录", ip)
	}
	return record, nil
}

// parseResponse 解析whois返回的竖线分隔表格。
// 第一行是表头，数据取第二行；不足两行或不足7列都视为无信息。
// 第7列之后的多余字段和第二行之后的多余数据行一律忽略。
func parseResponse(raw string) *model.AsnRecord {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	fields := strings.Split(lines[1], "|")
	if len(fields) < fieldCount {
		return nil
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	return &model.AsnRecord{
		ASN:           fields[0],
		ReportedIP:    fields[1],
		Prefix:        fields[2],
		CountryCode:   fields[3],
		Registry:      fields[4],
		AllocatedDate: fields[5],
		ASName:        fields[6],
	}
}
