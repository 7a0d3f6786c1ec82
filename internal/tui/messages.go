package tui

import (
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/feed"
	"github.com/uniqwrites/secnews/internal/metadata"
	"github.com/uniqwrites/secnews/internal/scrape"
)

type articlesMsg struct {
	feed.Result
}

type metadataMsg struct {
	cache *metadata.Cache
}

type statsMsg struct {
	days     int
	snapshot *api.Statistics
	err      error
}

type scrapeDoneMsg struct {
	epoch uint64
	err   error
}

type scrapeSettleMsg struct {
	settle scrape.Settle
}

type readMsg struct {
	read map[string]bool
}

type actionErrMsg struct {
	err error
}
