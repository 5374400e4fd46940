package finance

import (
	"fmt"
	"sort"
	"strings"

	"assetlogBot/internal/storage"

	"github.com/vicanso/go-charts/v2"
)

// UsageAnalytics renders the /stats report
type UsageAnalytics struct{}

func NewUsageAnalytics() *UsageAnalytics {
	return &UsageAnalytics{}
}

// MakeUsageChart creates a pie chart of handled commands
func (ua *UsageAnalytics) MakeUsageChart(stats map[string]*storage.UsageStats, days int) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no usage data available")
	}

	commands := sortedCommands(stats)
	total := 0
	for _, cmd := range commands {
		total += stats[cmd].Count
	}

	values := make([]float64, 0, len(commands))
	labels := make([]string, 0, len(commands))
	for _, cmd := range commands {
		n := stats[cmd].Count
		values = append(values, float64(n))
		labels = append(labels, fmt.Sprintf("/%s (%.1f%%)", cmd, float64(n)/float64(total)*100))
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Command Usage (%d days)", days)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// FormatUsageStatsText creates a plain-text summary of usage statistics
func (ua *UsageAnalytics) FormatUsageStatsText(stats map[string]*storage.UsageStats, days int) string {
	if len(stats) == 0 {
		return "No usage data available for the specified period."
	}

	commands := sortedCommands(stats)
	total := 0
	for _, cmd := range commands {
		total += stats[cmd].Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Usage (%d days)\n\n", days)
	fmt.Fprintf(&b, "Total commands: %d\n\n", total)

	for _, cmd := range commands {
		st := stats[cmd]
		fmt.Fprintf(&b, "/%s: %d (%.1f%%)\n", cmd, st.Count, float64(st.Count)/float64(total)*100)

		outcomes := make([]string, 0, len(st.Outcomes))
		for o := range st.Outcomes {
			outcomes = append(outcomes, o)
		}
		// most frequent first
		sort.Slice(outcomes, func(i, j int) bool {
			if st.Outcomes[outcomes[i]] != st.Outcomes[outcomes[j]] {
				return st.Outcomes[outcomes[i]] > st.Outcomes[outcomes[j]]
			}
			return outcomes[i] < outcomes[j]
		})
		for _, o := range outcomes {
			fmt.Fprintf(&b, "  • %s: %d\n", formatOutcomeName(o), st.Outcomes[o])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedCommands(stats map[string]*storage.UsageStats) []string {
	out := make([]string, 0, len(stats))
	for cmd := range stats {
		out = append(out, cmd)
	}
	sort.Strings(out)
	return out
}

// formatOutcomeName converts outcome labels to user-friendly text
func formatOutcomeName(outcome string) string {
	switch outcome {
	case OutcomeOK:
		return "✅ ok"
	case OutcomeUsage:
		return "ℹ️ usage hint"
	case OutcomeNotFound:
		return "❌ price not found"
	case OutcomeInvalidInput:
		return "❌ invalid input"
	default:
		return outcome
	}
}
