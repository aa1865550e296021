package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/rs/zerolog/log"
)

// Conn 封装 ZooKeeper 连接，统一会话超时与日志。
type Conn struct {
	*zk.Conn
}

// Connect 建立到 ZooKeeper 集群的会话。
func Connect(servers []string) (*Conn, error) {
	conn, _, err := zk.Connect(servers, 10*time.Second, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}
	log.Info().Strs("servers", servers).Msg("connected to zookeeper")
	return &Conn{Conn: conn}, nil
}

// Close 结束会话，所有临时节点随之消失。
func (c *Conn) Close() {
	c.Conn.Close()
}
