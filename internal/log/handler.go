package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/psviderski/cpualloc/pkg/api"
	"github.com/shopspring/decimal"
)

// TextHandler is a [slog.TextHandler] that prefixes each entry with a right-padded level and the message
// instead of logging them as attributes. Time is omitted. Offers and decimal amounts are logged in their
// compact form, e.g. offer=us-east/large@0.12 remaining_budget=3.5.
//
// The output format is:
// LEVEL MESSAGE key1=value1 key2=value2
type TextHandler struct {
	text *slog.TextHandler
	// mu is shared by the handlers derived with WithAttrs and WithGroup so their lines don't interleave.
	mu *sync.Mutex
	w  io.Writer
}

func NewTextHandler(w io.Writer, opts *slog.HandlerOptions) *TextHandler {
	var o slog.HandlerOptions
	if opts != nil {
		o = *opts
	}
	replace := o.ReplaceAttr
	o.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
			return slog.Attr{}
		}
		a.Value = compactValue(a.Value)
		if replace != nil {
			return replace(groups, a)
		}
		return a
	}

	return &TextHandler{
		text: slog.NewTextHandler(w, &o),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

// compactValue converts offers and decimals to plain strings. Pointers to decimals are logged as their value
// or as <nil>.
func compactValue(v slog.Value) slog.Value {
	if v.Kind() != slog.KindAny {
		return v
	}
	switch val := v.Any().(type) {
	case api.Offer:
		return slog.StringValue(val.String())
	case decimal.Decimal:
		return slog.StringValue(val.String())
	case *decimal.Decimal:
		if val == nil {
			return slog.StringValue("<nil>")
		}
		return slog.StringValue(val.String())
	}
	return v
}

func (h *TextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.text.Enabled(ctx, level)
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TextHandler{text: h.text.WithAttrs(attrs).(*slog.TextHandler), mu: h.mu, w: h.w}
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	return &TextHandler{text: h.text.WithGroup(name).(*slog.TextHandler), mu: h.mu, w: h.w}
}

func (h *TextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintf(h.w, "%-5s %s ", r.Level.String(), r.Message); err != nil {
		return err
	}
	return h.text.Handle(ctx, r)
}
