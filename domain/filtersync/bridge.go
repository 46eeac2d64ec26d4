package filtersync

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Widget identifies one of the two embedded widgets.
type Widget int

const (
	Report Widget = iota
	Map
)

func (w Widget) String() string {
	switch w {
	case Report:
		return "report"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Other returns the opposite widget.
func (w Widget) Other() Widget {
	if w == Report {
		return Map
	}
	return Report
}

// Selection is a user selection made inside a widget. Empty Values clears it.
type Selection struct {
	Source Widget
	Field  string
	Values []string
}

// Filter is the predicate applied to the widget opposite a selection.
type Filter struct {
	Target Widget
	Field  string
	Values []string
}

// Key is a canonical identity used to drop duplicate deliveries. Value order and
// repeated values do not matter.
func (f Filter) Key() string {
	vals := append([]string(nil), f.Values...)
	sort.Strings(vals)
	vals = slices.Compact(vals)
	var b strings.Builder
	b.WriteString(f.Target.String())
	b.WriteByte('|')
	b.WriteString(strconv.Quote(f.Field))
	for _, v := range vals {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(v))
	}
	return b.String()
}

// Applier applies a filter inside a widget.
type Applier interface {
	ApplyFilter(ctx context.Context, f Filter) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ctx context.Context, f Filter) error

func (fn ApplierFunc) ApplyFilter(ctx context.Context, f Filter) error { return fn(ctx, f) }

// FieldMap maps report field names to the corresponding map layer field names.
type FieldMap map[string]string

// Translate converts a selection into the filter for the other widget. ok is false
// when the selected field has no counterpart.
func (m FieldMap) Translate(sel Selection) (Filter, bool) {
	return newFieldIndex(m).translate(sel)
}

// fieldIndex holds both lookup directions of a FieldMap. When several report
// fields share a map field, the lexically smallest report field is used.
type fieldIndex struct {
	toMap    map[string]string
	toReport map[string]string
}

func newFieldIndex(m FieldMap) fieldIndex {
	idx := fieldIndex{toMap: make(map[string]string, len(m)), toReport: make(map[string]string, len(m))}
	reportFields := make([]string, 0, len(m))
	for reportField := range m {
		reportFields = append(reportFields, reportField)
	}
	sort.Strings(reportFields)
	for _, reportField := range reportFields {
		mapField := m[reportField]
		idx.toMap[reportField] = mapField
		if _, taken := idx.toReport[mapField]; !taken {
			idx.toReport[mapField] = reportField
		}
	}
	return idx
}

func (idx fieldIndex) translate(sel Selection) (Filter, bool) {
	var lookup map[string]string
	switch sel.Source {
	case Report:
		lookup = idx.toMap
	case Map:
		lookup = idx.toReport
	default:
		return Filter{}, false
	}
	target, found := lookup[sel.Field]
	if !found {
		return Filter{}, false
	}
	return Filter{Target: sel.Source.Other(), Field: target, Values: append([]string(nil), sel.Values...)}, true
}

// Receiver wraps an Applier and applies each distinct filter once: a filter equal
// to the last one applied is ignored.
type Receiver struct {
	mu      sync.Mutex
	applier Applier
	last    string
	logger  *slog.Logger
}

// NewReceiver returns an idempotent receiver around a.
func NewReceiver(a Applier, logger *slog.Logger) *Receiver {
	return &Receiver{applier: a, logger: logger}
}

// Receive applies f unless it duplicates the previous filter. It reports whether
// the applier was invoked.
func (r *Receiver) Receive(ctx context.Context, f Filter) (bool, error) {
	key := f.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == r.last {
		return false, nil
	}
	if r.applier != nil {
		if err := r.applier.ApplyFilter(ctx, f); err != nil {
			return true, err
		}
	}
	r.last = key
	return true, nil
}

const queueSize = 16

// Bridge forwards selections from each widget to the other as filters. Delivery is
// asynchronous and fire-and-forget; each direction has its own queue, so ordering
// between the two directions is not guaranteed.
type Bridge struct {
	fields    fieldIndex
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	queues    map[Widget]chan Filter
	receivers map[Widget]*Receiver
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBridge starts delivery loops towards the report and map appliers.
func NewBridge(fields FieldMap, report, mapw Applier, logger *slog.Logger) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		fields: newFieldIndex(fields),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		queues: map[Widget]chan Filter{
			Report: make(chan Filter, queueSize),
			Map:    make(chan Filter, queueSize),
		},
		receivers: map[Widget]*Receiver{
			Report: NewReceiver(report, logger),
			Map:    NewReceiver(mapw, logger),
		},
	}
	for w := range b.queues {
		b.wg.Add(1)
		go b.deliver(w)
	}
	return b
}

// Publish queues the filter derived from sel. It never blocks: when the target
// queue is full the oldest pending filter is dropped in favour of the new one.
func (b *Bridge) Publish(sel Selection) bool {
	if b == nil || b.ctx.Err() != nil {
		return false
	}
	f, ok := b.fields.translate(sel)
	if !ok {
		if b.logger != nil {
			b.logger.Debug("filtersync: unmapped field", "source", sel.Source.String(), "field", sel.Field)
		}
		return false
	}
	q := b.queues[f.Target]
	select {
	case q <- f:
		return true
	default:
	}
	select {
	case <-q:
	default:
	}
	select {
	case q <- f:
		return true
	default:
		return false
	}
}

func (b *Bridge) deliver(target Widget) {
	defer b.wg.Done()
	q := b.queues[target]
	recv := b.receivers[target]
	for {
		select {
		case <-b.ctx.Done():
			return
		case f := <-q:
			b.apply(recv, f)
		}
	}
}

// apply hands one filter to recv. A panicking applier loses only that filter.
func (b *Bridge) apply(recv *Receiver, f Filter) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Error("filtersync: delivery panic", "target", f.Target.String(), "field", f.Field, "error", r, "stack", string(debug.Stack()))
		}
	}()
	applied, err := recv.Receive(b.ctx, f)
	if b.logger == nil {
		return
	}
	if err != nil {
		b.logger.Error("filtersync: apply failed", "target", f.Target.String(), "field", f.Field, "error", err)
	} else if applied {
		b.logger.Debug("filtersync: applied", "target", f.Target.String(), "field", f.Field, "values", len(f.Values))
	}
}

// Close stops delivery; pending filters are discarded.
func (b *Bridge) Close() {
	if b == nil {
		return
	}
	b.closeOnce.Do(func() {
		b.cancel()
		b.wg.Wait()
	})
}
