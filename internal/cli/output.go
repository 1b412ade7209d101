package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mmunhall/dice-sack/internal/model"
)

var (
	// Color definitions
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter writing to out and errOut
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		red.Fprint(o.errOut, "Error: ")
		fmt.Fprintln(o.errOut, err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GroupView:
		o.printGroup(v)
	case HistoryView:
		o.printHistory(v)
	case ClearResult:
		o.printClearResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// GroupView is a committed or live dice group
type GroupView struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Dice      []model.DieRecord `json:"dice"`
	Values    []int             `json:"values"`
	Total     int               `json:"total"`
}

// HistoryView lists committed groups, newest first
type HistoryView struct {
	Groups []GroupView `json:"groups"`
	Total  int         `json:"total"` // Groups in history, ignoring any limit
}

// ClearResult reports a history clear
type ClearResult struct {
	Removed int `json:"removed"`
}

// NewGroupView snapshots a group for printing
func NewGroupView(g *model.DiceGroup) GroupView {
	rec := g.Record()
	values := make([]int, len(rec.Dice))
	total := 0
	for i, d := range rec.Dice {
		values[i] = d.Value
		total += d.Value
	}
	return GroupView{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Dice:      rec.Dice,
		Values:    values,
		Total:     total,
	}
}

func (o *Output) printGroup(g GroupView) {
	fmt.Fprintf(o.out, "Group: %s\n", g.ID)
	faint.Fprintf(o.out, "Rolled: %s\n", g.CreatedAt.Local().Format(time.DateTime))

	faces := make([]string, len(g.Dice))
	for i, d := range g.Dice {
		face := fmt.Sprintf("[%d]", d.Value)
		if d.Sides != 6 {
			face = fmt.Sprintf("[%d/d%d]", d.Value, d.Sides)
		}
		if d.Locked {
			face = yellow.Sprint(face + "*")
		}
		faces[i] = face
	}
	fmt.Fprintf(o.out, "Dice: %s\n", strings.Join(faces, " "))
	fmt.Fprint(o.out, "Total: ")
	green.Fprintf(o.out, "%d\n", g.Total)
}

func (o *Output) printHistory(h HistoryView) {
	if len(h.Groups) == 0 {
		fmt.Fprintln(o.out, "No rolls in history")
		return
	}
	for i, g := range h.Groups {
		if i > 0 {
			fmt.Fprintln(o.out)
		}
		o.printGroup(g)
	}
	if len(h.Groups) < h.Total {
		faint.Fprintf(o.out, "\n(%d of %d rolls shown)\n", len(h.Groups), h.Total)
	}
}

func (o *Output) printClearResult(c ClearResult) {
	fmt.Fprintf(o.out, "Cleared %d rolls from history\n", c.Removed)
}
