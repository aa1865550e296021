package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client 封装了 go-redis 客户端，集中管理连接参数。
type Client struct {
	rdb *goredis.Client
}

// NewClient 建立连接并做一次 Ping 探活。
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info().Str("addr", addr).Msg("connected to redis")
	return &Client{rdb: rdb}, nil
}

// GetClient 返回底层客户端，供适配器直接使用。
func (c *Client) GetClient() *goredis.Client {
	return c.rdb
}

// Close 关闭连接池。
func (c *Client) Close() error {
	return c.rdb.Close()
}
