package prober

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"ZhaoYaoJing/internal/model"
	"ZhaoYaoJing/internal/utils"
)

// Prober 对单个端口做一次限时TCP连接探测
type Prober struct {
	timeout time.Duration
	logger  *utils.Logger

	// 测试时可替换的拨号函数
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func New(timeout time.Duration) *Prober {
	d := &net.Dialer{}
	return &Prober{
		timeout: timeout,
		logger:  utils.NewLogger("prober"),
		dial:    d.DialContext,
	}
}

type dialResult struct {
	conn net.Conn
	err  error
}

// Probe 对 ip:port 发起一次TCP连接尝试，与定时器竞速。
// 连接成功、超时、网络错误三个分支最多只有一个胜出：结果通道带缓冲，
// 定时器胜出后拨号上下文被撤销，落败分支的结果落进缓冲被丢弃，
// 不会出现二次结算。任何分支下套接字都在返回前关闭，不收发任何数据。
func (p *Prober) Probe(ctx context.Context, ip string, port int) model.ProbeOutcome {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan dialResult, 1)
	start := time.Now()
	go func() {
		conn, err := p.dial(dialCtx, "tcp", addr)
		if conn != nil && dialCtx.Err() != nil {
			// 定时器已胜出，迟到的连接直接关掉
			_ = conn.Close()
			conn, err = nil, dialCtx.Err()
		}
		done <- dialResult{conn: conn, err: err}
	}()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		elapsed := time.Since(start)
		if r.err == nil {
			// 立即优雅关闭
			_ = r.conn.Close()
			p.logger.Debug("连接成功: %s (%v)", addr, elapsed)
			return model.ProbeOutcome{State: model.StateOpen, Elapsed: elapsed}
		}
		return p.classify(addr, r.err, elapsed)
	case <-timer.C:
		cancel()
		p.logger.Debug("探测超时: %s (%v)", addr, p.timeout)
		return model.ProbeOutcome{
			State:   model.StateTimeout,
			Reason:  fmt.Sprintf("%d毫秒内未建立连接", p.timeout.Milliseconds()),
			Elapsed: p.timeout,
		}
	}
}

// classify 根据错误类型判定端口状态
func (p *Prober) classify(addr string, err error, elapsed time.Duration) model.ProbeOutcome {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return model.ProbeOutcome{State: model.StateTimeout, Reason: err.Error(), Elapsed: elapsed}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var se *os.SyscallError
		if errors.As(opErr.Err, &se) && se.Err == syscall.ECONNREFUSED {
			p.logger.Debug("连接被拒绝: %s", addr)
			return model.ProbeOutcome{State: model.StateClosed, Reason: "连接被拒绝", Elapsed: elapsed}
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) && errno == syscall.ECONNREFUSED {
			p.logger.Debug("连接被拒绝: %s", addr)
			return model.ProbeOutcome{State: model.StateClosed, Reason: "连接被拒绝", Elapsed: elapsed}
		}
	}

	p.logger.Debug("连接失败: %s: %v", addr, err)
	return model.ProbeOutcome{State: model.StateError, Reason: err.Error(), Elapsed: elapsed}
}
