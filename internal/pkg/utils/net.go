package utils

import (
	"net"

	"github.com/pkg/errors"
)

// GetOutboundIP 获取本机对外通信使用的 IP，用于服务注册。
// 不会真的发包：UDP Dial 只是让内核选一条路由。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", errors.Wrap(err, "resolve outbound ip")
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", errors.New("unexpected local address type")
	}
	return addr.IP.String(), nil
}
