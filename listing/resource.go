package listing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bioskop-cli/service"
)

// Status is the render state of a list-backed screen.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusEmpty
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// FallbackMessage is shown when a failed fetch carries no usable message.
const FallbackMessage = "Failed to fetch data. Please try again."

var (
	ErrNotPaginated   = errors.New("list is not paginated")
	ErrPageOutOfRange = errors.New("page out of range")
)

// State is a snapshot of a Resource. Exactly one Status holds; Items is
// non-empty only when Status is StatusReady.
type State struct {
	Status     Status
	Err        string
	Items      []Record
	Pagination *Pagination
	Page       int
}

// Fetcher performs one page fetch and returns the raw decoded body.
type Fetcher func(ctx context.Context, page int) (any, error)

// Request is an issued fetch. Only the most recently issued request may
// change the resource state.
type Request struct {
	Seq  uint64
	Page int
	ctx  context.Context
}

// Result is a settled fetch, ready to be applied.
type Result struct {
	Seq        uint64
	Page       int
	Items      []Record
	Pagination *Pagination
	Err        error
}

// Option configures a Resource.
type Option func(*Resource)

// WithStrict makes unrecognized response shapes surface as errors instead of
// an empty list.
func WithStrict(strict bool) Option {
	return func(r *Resource) {
		r.strict = strict
	}
}

// Resource drives the fetch/normalize/render cycle for one list.
type Resource struct {
	fetch  Fetcher
	strict bool

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
}

func NewResource(fetch Fetcher, opts ...Option) *Resource {
	r := &Resource{
		fetch: fetch,
		state: State{Status: StatusLoading, Page: 1},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns a copy of the current state.
func (r *Resource) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Begin marks the resource as loading and issues a new request for page,
// cancelling whatever request was in flight.
func (r *Resource) Begin(ctx context.Context, page int) Request {
	if page < 1 {
		page = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	r.state = State{Status: StatusLoading, Page: page}
	return Request{Seq: r.seq, Page: page, ctx: reqCtx}
}

// Run performs the fetch for req. It does not touch the resource state and is
// safe to call from another goroutine.
func (r *Resource) Run(req Request) Result {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	res := Result{Seq: req.Seq, Page: req.Page}
	body, err := r.fetch(ctx, req.Page)
	if err != nil {
		res.Err = err
		return res
	}
	if r.strict {
		res.Items, res.Pagination, res.Err = NormalizeStrict(body)
		return res
	}
	res.Items, res.Pagination = Normalize(body)
	return res
}

// Apply stores res if it belongs to the latest request and reports whether it
// did. Results of superseded or cancelled requests are dropped.
func (r *Resource) Apply(res Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Seq != r.seq {
		return false
	}
	if res.Err != nil && errors.Is(res.Err, context.Canceled) {
		return false
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	next := State{Page: res.Page}
	switch {
	case res.Err != nil:
		next.Status = StatusError
		next.Err = Message(res.Err)
	case len(res.Items) == 0:
		next.Status = StatusEmpty
		next.Pagination = res.Pagination
	default:
		next.Status = StatusReady
		next.Items = res.Items
		next.Pagination = res.Pagination
	}
	r.state = next
	return true
}

// Load runs a full cycle for page and returns the resulting state.
func (r *Resource) Load(ctx context.Context, page int) State {
	req := r.Begin(ctx, page)
	r.Apply(r.Run(req))
	return r.State()
}

// Retry reloads the last requested page.
func (r *Resource) Retry(ctx context.Context) State {
	return r.Load(ctx, r.State().Page)
}

// CheckPage reports whether page n may be requested from the current state.
func (r *Resource) CheckPage(n int) error {
	st := r.State()
	if st.Status != StatusReady || st.Pagination == nil {
		return ErrNotPaginated
	}
	if !st.Pagination.HasPage(n) {
		return ErrPageOutOfRange
	}
	return nil
}

// GoToPage loads page n. Nothing is fetched when n is outside [1, last_page]
// or the list is not showing paginated results.
func (r *Resource) GoToPage(ctx context.Context, n int) (State, error) {
	if err := r.CheckPage(n); err != nil {
		return r.State(), err
	}
	return r.Load(ctx, n), nil
}

func (r *Resource) Next(ctx context.Context) (State, error) {
	return r.GoToPage(ctx, r.currentPage()+1)
}

func (r *Resource) Previous(ctx context.Context) (State, error) {
	return r.GoToPage(ctx, r.currentPage()-1)
}

// Close cancels the in-flight request; its result will be discarded.
func (r *Resource) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
}

func (r *Resource) currentPage() int {
	st := r.State()
	if st.Pagination != nil && st.Pagination.CurrentPage > 0 {
		return st.Pagination.CurrentPage
	}
	return st.Page
}

func (r *Resource) snapshot() State {
	st := r.state
	if st.Items != nil {
		st.Items = append([]Record(nil), st.Items...)
	}
	if st.Pagination != nil {
		p := *st.Pagination
		st.Pagination = &p
	}
	return st
}

type serverMessager interface {
	ServerMessage() string
}

// Message picks the text shown for a failed fetch: the server's message, then
// the error text, then FallbackMessage. Transport failures always read as
// FallbackMessage; their details go to the log.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var sm serverMessager
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return msg
		}
	}
	if errors.Is(err, service.ErrTransport) {
		return FallbackMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}
