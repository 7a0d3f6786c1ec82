package feed

import (
	"context"
	"log/slog"

	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/query"
)

// Source retrieves one page of articles.
type Source interface {
	Articles(ctx context.Context, d query.Descriptor) ([]api.Article, error)
}

// Ticket tags a fetch with the descriptor that triggered it. Seq orders
// dispatches so two fetches of an equal descriptor are still told apart.
type Ticket struct {
	Descriptor query.Descriptor
	Seq        uint64
}

// Result is the outcome of one fetch, still tagged with its ticket.
type Result struct {
	Ticket   Ticket
	Articles []api.Article
	Err      error
}

// Fetch performs the retrieval for a ticket. It does not touch any Fetcher
// state, so it is safe to run off the control flow.
func Fetch(ctx context.Context, src Source, t Ticket) Result {
	articles, err := src.Articles(ctx, t.Descriptor)
	return Result{Ticket: t, Articles: articles, Err: err}
}

// Fetcher holds the visible article set and reconciles results against the
// most recent dispatch. Only a result whose ticket matches the latest one is
// applied; everything else was superseded and is dropped.
type Fetcher struct {
	latest   Ticket
	seq      uint64
	articles []api.Article
	loading  bool
	loaded   bool
	err      error
	log      *slog.Logger
}

func NewFetcher() *Fetcher {
	return &Fetcher{log: logging.For("feed")}
}

// Dispatch records d as the current query and returns the ticket to fetch
// with. The previous articles stay visible until a result is applied.
func (f *Fetcher) Dispatch(d query.Descriptor) Ticket {
	f.seq++
	f.latest = Ticket{Descriptor: d, Seq: f.seq}
	f.loading = true
	f.log.Debug("fetch dispatched", "query", d.String(), "seq", f.seq)
	return f.latest
}

// Apply reconciles a finished fetch. It reports whether the result became
// visible.
func (f *Fetcher) Apply(r Result) bool {
	if r.Ticket != f.latest {
		f.log.Debug("stale result discarded",
			"query", r.Ticket.Descriptor.String(), "seq", r.Ticket.Seq, "current_seq", f.latest.Seq)
		return false
	}

	f.loading = false
	if r.Err != nil {
		// The page could not be refreshed; keep what the user was looking at.
		f.err = r.Err
		f.log.Warn("fetch failed", "query", r.Ticket.Descriptor.String(), "error", r.Err)
		return true
	}

	f.err = nil
	f.loaded = true
	f.articles = r.Articles
	f.log.Info("fetch applied", "query", r.Ticket.Descriptor.String(), "articles", len(r.Articles))
	return true
}

func (f *Fetcher) Articles() []api.Article { return f.articles }
func (f *Fetcher) Loading() bool           { return f.loading }
func (f *Fetcher) Err() error              { return f.err }

// Loaded reports whether any fetch has been applied successfully.
func (f *Fetcher) Loaded() bool { return f.loaded }

// Current returns the descriptor of the latest dispatch.
func (f *Fetcher) Current() query.Descriptor { return f.latest.Descriptor }
