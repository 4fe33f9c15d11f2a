package idutil

import (
	"github.com/bwmarrin/snowflake"
)

var scanNode *snowflake.Node

func init() {
	var err error
	scanNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// NewScanID returns a time-ordered unique id for scan records. Snowflake ids
// keep the append-only scan log clustered by time.
func NewScanID() int64 {
	return scanNode.Generate().Int64()
}
