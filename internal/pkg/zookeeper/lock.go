package zookeeper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const (
	lockRoot    = "/merx/locks" // 所有分布式锁的根节点
	lockTimeout = 30 * time.Second
)

// DistributedLock 是基于临时顺序节点的分布式锁。
// 同一资源上的竞争者按节点序号排队，序号最小者持锁，
// 其余只监听自己的前驱，避免惊群。
type DistributedLock struct {
	conn     *Conn
	path     string // 锁的路径，例如 /merx/locks/campaign-activation
	lockNode string // 成功入队后自己创建的节点路径
}

// NewDistributedLock 创建一个锁实例并确保锁路径存在。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	for _, path := range []string{"/merx", lockRoot, lockRoot + "/" + resourceID} {
		_, err := conn.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll))
		if err != nil && err != zk.ErrNodeExists {
			return nil, fmt.Errorf("failed to create lock path %s: %w", path, err)
		}
	}
	return &DistributedLock{
		conn: conn,
		path: lockRoot + "/" + resourceID,
	}, nil
}

// Lock 尝试获取锁，获取不到则阻塞等待，最长等待 lockTimeout。
func (l *DistributedLock) Lock() error {
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath

	for {
		children, _, err := l.conn.Children(l.path)
		if err != nil {
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Strings(children)

		myNodeName := strings.TrimPrefix(l.lockNode, l.path+"/")
		if myNodeName == children[0] {
			// 序号最小，持锁
			return nil
		}

		// 监听自己的前驱节点
		prevNodeIndex := -1
		for i, child := range children {
			if child == myNodeName {
				prevNodeIndex = i - 1
				break
			}
		}
		if prevNodeIndex < 0 {
			return errors.New("cannot find previous node, something is wrong")
		}
		prevNodePath := l.path + "/" + children[prevNodeIndex]

		_, _, eventChan, err := l.conn.ExistsW(prevNodePath)
		if err != nil {
			// 前驱在检查的瞬间刚好被删除，重新竞争
			if err == zk.ErrNoNode {
				continue
			}
			return fmt.Errorf("failed to watch previous node: %w", err)
		}

		select {
		case event := <-eventChan:
			if event.Type == zk.EventNodeDeleted {
				continue
			}
		case <-time.After(lockTimeout):
			_ = l.Unlock()
			return errors.New("timeout waiting for lock")
		}
	}
}

// Unlock 释放锁。
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return errors.New("no lock to unlock")
	}
	err := l.conn.Delete(l.lockNode, -1)
	if err != nil && err != zk.ErrNoNode {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	l.lockNode = ""
	return nil
}

// LockRunner 以 "锁住一个资源执行一段函数" 的形式暴露分布式锁，
// 实现 promotion 领域的 ActivationLock 接口。
type LockRunner struct {
	conn *Conn
}

// NewLockRunner 创建一个 LockRunner。
func NewLockRunner(conn *Conn) *LockRunner {
	return &LockRunner{conn: conn}
}

// WithLock 在持有 resource 锁的前提下执行 fn。
func (r *LockRunner) WithLock(resource string, fn func() error) error {
	lock, err := NewDistributedLock(r.conn, resource)
	if err != nil {
		return err
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}
