package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"grid-backtest/internal/model"
)

func WriteTradesCSV(path string, res *model.SimulationResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeTradesCSV(f, res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodeTradesCSV writes one row per lot, open and closed, ordered by buy time.
func EncodeTradesCSV(out io.Writer, res *model.SimulationResult) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"buy_time",
		"buy_price",
		"sell_time",
		"sell_price",
		"amount",
		"units",
		"profit",
		"status",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, lot := range res.Lots() {
		sellTime, sellPrice := "", ""
		if lot.Status == model.LotClosed {
			sellTime = fmtTime(lot.SellTimestamp)
			sellPrice = fmtFloat(lot.SellPrice)
		}
		row := []string{
			fmtTime(lot.BuyTimestamp),
			fmtFloat(lot.BuyPrice),
			sellTime,
			sellPrice,
			fmtFloat(lot.Amount),
			fmtFloat(lot.Units()),
			fmtFloat(lot.Profit()),
			string(lot.Status),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
