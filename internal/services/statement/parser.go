// Package statement extracts holdings from broker statement PDFs.
// Extraction is heuristic: a chain of strategies runs in order and the
// first one that yields holdings wins.
package statement

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// Symbol, quantity, price separated by whitespace on one line.
// Symbols are 2-5 uppercase letters so prose words rarely match.
var holdingLinePattern = regexp.MustCompile(`([A-Z]{2,5})\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)`)

// Parser implements the StatementParser interface
type Parser struct {
	logger *common.Logger
}

// ParserOption configures the parser
type ParserOption func(*Parser)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a statement parser
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts holdings from raw PDF bytes. Strategies run in order
// and the first non-empty result is returned. If every strategy comes
// up empty, ErrNoHoldingsFound is returned.
func (p *Parser) Parse(data []byte) ([]models.Holding, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, models.NewParseError(err)
	}

	strategies := []struct {
		name string
		run  func(*pdf.Reader) ([]models.Holding, error)
	}{
		{"plaintext", p.parsePlainText},
		{"rowtext", p.parseRowText},
	}

	for _, s := range strategies {
		holdings, err := s.run(reader)
		if err != nil {
			p.logger.Debug().
				Str("strategy", s.name).
				Err(err).
				Msg("Statement parse strategy failed")
			continue
		}
		if len(holdings) > 0 {
			p.logger.Info().
				Str("strategy", s.name).
				Int("holdings", len(holdings)).
				Msg("Statement parsed")
			return holdings, nil
		}
	}

	return nil, models.ErrNoHoldingsFound
}

// parsePlainText extracts the whole document as a single text stream
// and scans it line by line.
func (p *Parser) parsePlainText(reader *pdf.Reader) ([]models.Holding, error) {
	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, err
	}

	return ExtractFromText([]string{buf.String()}), nil
}

// parseRowText reassembles text row by row from glyph positions. Some
// statements interleave columns in the plain text stream and only come
// out readable this way.
func (p *Parser) parseRowText(reader *pdf.Reader) ([]models.Holding, error) {
	var holdings []models.Holding

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, text := range row.Content {
				parts = append(parts, text.S)
			}
			line := strings.Join(parts, " ")
			if isHeaderLine(line) {
				continue
			}
			if h, ok := matchHoldingLine(line); ok {
				holdings = append(holdings, h)
			}
		}
	}

	return holdings, nil
}

// ExtractFromText scans extracted page text for holdings. Two line
// shapes are recognized: whitespace-separated "SYMBOL QTY PRICE" and
// pipe-delimited "SYMBOL | QTY | PRICE" table rows.
func ExtractFromText(pages []string) []models.Holding {
	var holdings []models.Holding

	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			if isHeaderLine(line) {
				continue
			}
			if h, ok := matchHoldingLine(line); ok {
				holdings = append(holdings, h)
				continue
			}
			if h, ok := matchPipeLine(line); ok {
				holdings = append(holdings, h)
			}
		}
	}

	return holdings
}

// isHeaderLine reports whether a line is blank or a table header.
func isHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	return strings.Contains(lower, "symbol") || strings.Contains(lower, "isin")
}

// matchHoldingLine applies the whitespace-separated pattern.
func matchHoldingLine(line string) (models.Holding, bool) {
	m := holdingLinePattern.FindStringSubmatch(line)
	if m == nil {
		return models.Holding{}, false
	}
	quantity, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return models.Holding{}, false
	}
	price, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return models.Holding{}, false
	}
	return models.Holding{Symbol: m[1], Quantity: quantity, Price: price}, true
}

// matchPipeLine applies the pipe-delimited table row pattern. The first
// cell must be a short alphabetic ticker and the next two numeric.
func matchPipeLine(line string) (models.Holding, bool) {
	if !strings.Contains(line, "|") {
		return models.Holding{}, false
	}
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return models.Holding{}, false
	}

	symbol := strings.TrimSpace(parts[0])
	if symbol == "" || len(symbol) > 5 || !isAlpha(symbol) {
		return models.Holding{}, false
	}
	quantity, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Holding{}, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return models.Holding{}, false
	}

	return models.Holding{Symbol: strings.ToUpper(symbol), Quantity: quantity, Price: price}, true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Ensure Parser implements StatementParser
var _ interfaces.StatementParser = (*Parser)(nil)
