package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/njchilds90/weierstrass/internal/store"
)

// RenderHistory lists stored analyses, one row each.
func RenderHistory(recs []store.Record, o Options) string {
	w := newWriter(o)
	if len(recs) == 0 {
		w.line("no analyses recorded yet")
		return w.b.String()
	}
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		minCell, maxCell := "-", "-"
		if rec.Result != nil {
			minCell = w.num(rec.Result.GlobalMin.Y)
			maxCell = w.num(rec.Result.GlobalMax.Y)
		}
		rows[i] = []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Formula,
			"[" + w.num(rec.A) + ", " + w.num(rec.B) + "]",
			yesNo(rec.Continuous),
			minCell,
			maxCell,
			shortRun(rec.RunID.String()),
		}
	}
	w.table(
		[]string{"id", "when", "f(x)", "interval", "continuous", "min", "max", "run"},
		rows,
		map[int]bool{0: true, 5: true, 6: true},
	)
	return w.b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func shortRun(id string) string {
	head, _, _ := strings.Cut(id, "-")
	return head
}
