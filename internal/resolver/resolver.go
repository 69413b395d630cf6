package resolver

import (
	"fmt"
	"net"

	"ZhaoYaoJing/internal/model"
)

// Resolve 将主机名解析为IP地址
// 输入本身是IP字面量时直接透传；否则走系统解析器，优先取IPv4地址。
// 解析失败直接返回错误，不做重试。
func Resolve(host string) (model.ResolvedEndpoint, error) {
	if host == "" {
		return model.ResolvedEndpoint{}, fmt.Errorf("主机名不能为空")
	}

	if ip := net.ParseIP(host); ip != nil {
		return model.ResolvedEndpoint{OriginalHost: host, IP: ip.String()}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return model.ResolvedEndpoint{}, fmt.Errorf("解析主机 %s 失败: %w", host, err)
	}

	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return model.ResolvedEndpoint{OriginalHost: host, IP: v4.String()}, nil
		}
	}
	if len(ips) > 0 {
		// 只有IPv6记录时取第一条
		return model.ResolvedEndpoint{OriginalHost: host, IP: ips[0].String()}, nil
	}

	return model.ResolvedEndpoint{}, fmt.Errorf("主机 %s 没有可用的IP记录", host)
}
