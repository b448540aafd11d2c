package ui

import "sync/atomic"

type Stats struct {
	PagesFetched  atomic.Int64
	ArticlesFound atomic.Int64
	BytesWritten  atomic.Int64
}
