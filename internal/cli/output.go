package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/api/response"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintRecord outputs an operation's data. Daily notes get a text summary,
// everything else is printed as JSON.
func (o *Output) PrintRecord(game model.Game, operation string, data json.RawMessage) error {
	if o.format == "json" || operation != "note" {
		o.printJSON(data)
		return nil
	}

	switch game {
	case model.GameGenshin:
		var note record.GenshinNote
		if err := json.Unmarshal(data, &note); err != nil {
			return err
		}
		o.printGenshinNote(note)
	case model.GameStarRail:
		var note record.StarRailNote
		if err := json.Unmarshal(data, &note); err != nil {
			return err
		}
		o.printStarRailNote(note)
	case model.GameZenless:
		var note record.ZenlessNote
		if err := json.Unmarshal(data, &note); err != nil {
			return err
		}
		o.printZenlessNote(note)
	default:
		o.printJSON(data)
	}
	return nil
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Account:
		o.printAccount(v)
	case response.Health:
		o.printHealth(v)
	case SignResult:
		fmt.Fprintln(o.w, v.DS)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SignResult is the output of the sign command
type SignResult struct {
	Family  string `json:"family"`
	Purpose string `json:"purpose"`
	DS      string `json:"ds"`
}

func (o *Output) printAccount(a response.Account) {
	fmt.Fprintf(o.w, "Account: %d (resolved %s)\n", a.AccountID, a.ResolvedAt.Format(time.RFC3339))
	if len(a.Games) == 0 {
		fmt.Fprintln(o.w, "No linked games")
		return
	}
	for _, g := range a.Games {
		line := fmt.Sprintf("  %-8s %-12s %-20s %s", g.Game, g.UID, g.Region, g.Realm)
		if g.Nickname != "" {
			line += fmt.Sprintf("  %s (Lv.%d)", g.Nickname, g.Level)
		}
		fmt.Fprintln(o.w, line)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
}

func (o *Output) printGenshinNote(n record.GenshinNote) {
	fmt.Fprintf(o.w, "Resin: %d/%d (full in %s)\n", n.CurrentResin, n.MaxResin, formatSeconds(n.ResinRecoveryTime))
	fmt.Fprintf(o.w, "Commissions: %d/%d\n", n.FinishedTaskNum, n.TotalTaskNum)
	fmt.Fprintf(o.w, "Expeditions: %d/%d\n", n.CurrentExpeditionNum, n.MaxExpeditionNum)
	if n.MaxHomeCoin > 0 {
		fmt.Fprintf(o.w, "Realm currency: %d/%d\n", n.CurrentHomeCoin, n.MaxHomeCoin)
	}
}

func (o *Output) printStarRailNote(n record.StarRailNote) {
	fmt.Fprintf(o.w, "Trailblaze power: %d/%d (full in %s)\n",
		n.CurrentStamina, n.MaxStamina, time.Duration(n.StaminaRecoverTime)*time.Second)
	fmt.Fprintf(o.w, "Reserve: %d\n", n.CurrentReserveStamina)
	fmt.Fprintf(o.w, "Assignments: %d/%d\n", n.AcceptedExpeditionNum, n.TotalExpeditionNum)
	for _, e := range n.Expeditions {
		fmt.Fprintf(o.w, "  %-24s %s (%s left)\n", e.Name, e.Status, time.Duration(e.RemainingTime)*time.Second)
	}
	if n.MaxTrainScore > 0 {
		fmt.Fprintf(o.w, "Daily training: %d/%d\n", n.CurrentTrainScore, n.MaxTrainScore)
	}
}

func (o *Output) printZenlessNote(n record.ZenlessNote) {
	fmt.Fprintf(o.w, "Battery: %d/%d (full in %s)\n",
		n.Energy.Progress.Current, n.Energy.Progress.Max, time.Duration(n.Energy.Restore)*time.Second)
	fmt.Fprintf(o.w, "Engagement: %d/%d\n", n.Vitality.Current, n.Vitality.Max)
	if n.VhsSale.SaleState != "" {
		fmt.Fprintf(o.w, "Video store: %s\n", strings.TrimPrefix(n.VhsSale.SaleState, "SaleState"))
	}
	if n.BountyCommission != nil {
		fmt.Fprintf(o.w, "Bounty commissions: %d/%d\n", n.BountyCommission.Num, n.BountyCommission.Total)
	}
}

// formatSeconds renders a seconds count sent as a string
func formatSeconds(s string) string {
	d, err := time.ParseDuration(s + "s")
	if err != nil {
		return s
	}
	return d.String()
}
