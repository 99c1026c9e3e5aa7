package candles

// csv.go — carga de velas desde ficheros tabulares (el formato histórico es
// TSV sin cabecera: timestamp, open, high, low, close, volume). Si el fichero
// trae cabecera se respetan los nombres, incluyendo los alias "max"/"min"
// para high/low: el aliasing se resuelve aquí, una sola vez en la ingesta,
// nunca en los puntos de consumo.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/qbot/internal/domain"
	"github.com/alejandrodnm/qbot/internal/ports"
)

var _ ports.CandleSource = (*CSVSource)(nil)

// Formatos de timestamp aceptados, en orden de prueba.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02",
}

// Orden de columnas cuando el fichero no trae cabecera.
var defaultColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}

// CSVSource implementa ports.CandleSource sobre un fichero CSV/TSV.
type CSVSource struct {
	path string
}

// NewCSVSource crea la fuente para la ruta dada. El separador (tab o coma)
// se detecta de la primera línea.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load lee el fichero completo y devuelve la serie validada.
func (s *CSVSource) Load(_ context.Context) (*domain.Series, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("candles.CSVSource: open %q: %w", s.path, err)
	}
	defer f.Close()

	candles, err := ReadCandles(f)
	if err != nil {
		return nil, fmt.Errorf("candles.CSVSource: %q: %w", s.path, err)
	}

	series, err := domain.NewSeries(candles)
	if err != nil {
		return nil, fmt.Errorf("candles.CSVSource: %q: %w", s.path, err)
	}
	return series, nil
}

// ReadCandles parsea velas de un reader CSV/TSV. Exportada aparte de Load
// para poder ingerir desde cualquier io.Reader en tests y tooling.
func ReadCandles(r io.Reader) ([]domain.Candle, error) {
	// Sniff del separador: los exports de MetaTrader usan tab, otros coma.
	buffered, sep, err := sniffSeparator(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sep
	reader.FieldsPerRecord = -1 // la columna volume es opcional

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	columns := defaultColumns
	rows := records
	if isHeader(records[0]) {
		columns = normalizeHeader(records[0])
		rows = records[1:]
	}

	idx, err := columnIndex(columns)
	if err != nil {
		return nil, err
	}

	candles := make([]domain.Candle, 0, len(rows))
	for n, row := range rows {
		if len(row) <= idx.close {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", n+1, idx.close+1, len(row))
		}

		ts, err := parseTimestamp(row[idx.timestamp])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}

		c := domain.Candle{Timestamp: ts}
		if c.Open, err = parseFloat(row[idx.open]); err != nil {
			return nil, fmt.Errorf("row %d: open: %w", n+1, err)
		}
		if c.High, err = parseFloat(row[idx.high]); err != nil {
			return nil, fmt.Errorf("row %d: high: %w", n+1, err)
		}
		if c.Low, err = parseFloat(row[idx.low]); err != nil {
			return nil, fmt.Errorf("row %d: low: %w", n+1, err)
		}
		if c.Close, err = parseFloat(row[idx.close]); err != nil {
			return nil, fmt.Errorf("row %d: close: %w", n+1, err)
		}
		if idx.volume >= 0 && len(row) > idx.volume {
			// Volume no lo usa el core; un valor ilegible no invalida la vela.
			c.Volume, _ = parseFloat(row[idx.volume])
		}
		candles = append(candles, c)
	}

	return candles, nil
}

type columns struct {
	timestamp, open, high, low, close, volume int
}

// columnIndex localiza cada campo por nombre, con los alias max→high, min→low
// ya normalizados.
func columnIndex(names []string) (columns, error) {
	idx := columns{timestamp: -1, open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, name := range names {
		switch name {
		case "timestamp", "time", "date":
			idx.timestamp = i
		case "open":
			idx.open = i
		case "high":
			idx.high = i
		case "low":
			idx.low = i
		case "close":
			idx.close = i
		case "volume":
			idx.volume = i
		}
	}
	for name, pos := range map[string]int{
		"timestamp": idx.timestamp,
		"open":      idx.open,
		"high":      idx.high,
		"low":       idx.low,
		"close":     idx.close,
	} {
		if pos < 0 {
			return columns{}, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

// normalizeHeader pasa la cabecera a minúsculas y resuelve los alias.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "max":
			name = "high"
		case "min":
			name = "low"
		}
		out[i] = name
	}
	return out
}

// isHeader: la primera fila es cabecera si su primer campo no parsea ni como
// timestamp ni como número.
func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	if _, err := parseTimestamp(row[0]); err == nil {
		return false
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err == nil {
		return false
	}
	return true
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	// Epoch en segundos, el formato del feed original.
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// sniffSeparator lee la primera línea para decidir entre tab y coma y
// devuelve un reader que vuelve a incluirla.
func sniffSeparator(r io.Reader) (io.Reader, rune, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read: %w", err)
	}

	firstLine := string(data)
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	sep := '\t'
	if !strings.ContainsRune(firstLine, '\t') && strings.ContainsRune(firstLine, ',') {
		sep = ','
	}
	return strings.NewReader(string(data)), sep, nil
}
