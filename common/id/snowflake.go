package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init sets up the process-wide generator. Only the first call has any effect.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// New returns a time-ordered unique id. Init must have succeeded first.
func New() int64 {
	return node.Generate().Int64()
}

// NewRunID returns an id for a pipeline run, or 0 when the generator is not initialised.
func NewRunID() int64 {
	if node == nil {
		return 0
	}
	return New()
}
