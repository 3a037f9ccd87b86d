package common

import "time"

var StartTime = time.Now().Unix() // unit: second
var Version = "v0.1.0"

var SQLitePath = "jewel-studio.db"
var SQLiteBusyTimeout = 3000

const (
	DesignStatusPending   = "pending"
	DesignStatusImageDone = "image_done"
	DesignStatusSucceeded = "succeeded"
	DesignStatusFailed    = "failed"
)
