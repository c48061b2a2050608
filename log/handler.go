// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

const termTimeFormat = "01-02|15:04:05.000"

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// TerminalHandler formats records for human readability, optionally with colored levels.
//
//	INFO [05-16|20:58:45.123] staked token  pkg=staker account=0x… tokenId=1
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandlerWithLevel returns a terminal handler which only outputs records at or
// above the given level.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		mu:       &sync.Mutex{},
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	lvl := LevelAlignedString(r.Level)
	if h.useColor {
		color := 0
		switch r.Level {
		case LevelCrit:
			color = 35
		case LevelError:
			color = 31
		case LevelWarn:
			color = 33
		case LevelInfo:
			color = 32
		case LevelDebug:
			color = 36
		case LevelTrace:
			color = 34
		}
		fmt.Fprintf(&buf, "\x1b[%dm%s\x1b[0m", color, lvl)
	} else {
		buf.WriteString(lvl)
	}
	fmt.Fprintf(&buf, "[%s] %-40s", r.Time.Format(termTimeFormat), r.Message)

	for _, attr := range h.attrs {
		writeAttr(&buf, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&buf, attr)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf.Bytes())
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	return &TerminalHandler{
		mu:       h.mu,
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(merged, attrs...),
	}
}

func writeAttr(buf *bytes.Buffer, attr slog.Attr) {
	buf.WriteByte(' ')
	buf.WriteString(attr.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(attr.Value))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		switch val := v.Any().(type) {
		case *big.Int:
			if val == nil {
				return "<nil>"
			}
			return val.String()
		case *uint256.Int:
			if val == nil {
				return "<nil>"
			}
			return val.Dec()
		case error:
			return fmt.Sprintf("%q", val.Error())
		case fmt.Stringer:
			return val.String()
		}
	}
	return v.String()
}

// JSONHandlerWithLevel returns a handler which prints records in JSON format, limited
// to the given level.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceJSON,
		Level:       level,
	})
}

// LogfmtHandlerWithLevel returns a handler which prints records in logfmt format, limited
// to the given level.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceLogfmt,
		Level:       level,
	})
}

func builtinReplaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, true)
}

func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, false)
}

func builtinReplace(_ []string, attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format("2006-01-02T15:04:05-0700"))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case *big.Int:
		if v == nil {
			return slog.String(attr.Key, "<nil>")
		}
		return slog.String(attr.Key, v.String())
	case *uint256.Int:
		if v == nil {
			return slog.String(attr.Key, "<nil>")
		}
		return slog.String(attr.Key, v.Dec())
	case fmt.Stringer:
		return slog.String(attr.Key, v.String())
	}
	return attr
}
