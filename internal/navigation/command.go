package navigation

import (
	"context"
	"fmt"

	"github.com/starford/archivist/internal/apperr"
)

// CommandKind enumerates the user commands a Controller accepts.
type CommandKind int

const (
	CmdActivate CommandKind = iota + 1
	CmdOpenDetail
	CmdCloseDetail
	CmdSearch
	CmdSaveNote
	CmdCopyNotes
	CmdExportMindMap
	CmdResetMindMap
)

var commandNames = map[CommandKind]string{
	CmdActivate:      "activate",
	CmdOpenDetail:    "open_detail",
	CmdCloseDetail:   "close_detail",
	CmdSearch:        "search",
	CmdSaveNote:      "save_note",
	CmdCopyNotes:     "copy_notes",
	CmdExportMindMap: "export_mindmap",
	CmdResetMindMap:  "reset_mindmap",
}

func (k CommandKind) String() string {
	if n, ok := commandNames[k]; ok {
		return n
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k CommandKind) MarshalText() ([]byte, error) {
	if n, ok := commandNames[k]; ok {
		return []byte(n), nil
	}
	return nil, fmt.Errorf("navigation: unknown command kind %d", int(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CommandKind) UnmarshalText(b []byte) error {
	for kind, n := range commandNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("navigation: unknown command %q", b)
}

// Command is one user action. Only the fields its Kind needs are read.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Section Section     `json:"section,omitempty"`
	ID      string      `json:"id,omitempty"`
	Query   string      `json:"query,omitempty"`
	Key     string      `json:"key,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// Result reports what a command produced.
type Result struct {
	State State `json:"state"`
	// Applied is false when the command was a no-op (unknown detail id,
	// nothing to copy, map not ready).
	Applied     bool   `json:"applied"`
	Notice      string `json:"notice,omitempty"`
	Text        string `json:"text,omitempty"`
	Image       []byte `json:"image,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// Dispatch runs cmd. Only malformed commands and persistence failures are
// returned as errors; every other outcome is folded into Result.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	res := Result{Applied: true}
	switch cmd.Kind {
	case CmdActivate:
		if !cmd.Section.Known() {
			return res, fmt.Errorf("navigation: section %q: %w", cmd.Section, apperr.ErrNotFound)
		}
		c.Activate(ctx, cmd.Section)
	case CmdOpenDetail:
		res.Applied = c.OpenDetail(ctx, cmd.ID)
	case CmdCloseDetail:
		c.CloseDetail(ctx)
	case CmdSearch:
		c.Search(ctx, cmd.Query)
	case CmdSaveNote:
		if cmd.Key == "" {
			return res, fmt.Errorf("navigation: save note: empty key")
		}
		if err := c.SaveNote(ctx, cmd.Key, cmd.Text); err != nil {
			return res, err
		}
	case CmdCopyNotes:
		res.Text, res.Applied = c.CopyNotes(ctx, cmd.Key)
	case CmdExportMindMap:
		res.Image, res.ContentType, res.Applied = c.ExportMindMap(ctx)
	case CmdResetMindMap:
		c.ResetMindMap(ctx)
	default:
		return res, fmt.Errorf("navigation: unknown command %v", cmd.Kind)
	}
	res.State = c.state
	res.Notice = c.notice
	c.notice = ""
	return res, nil
}
