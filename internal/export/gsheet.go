package export

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
)

type GSheetExporter struct {
	config        app.GSheetConfig
	emojiVariants []string
	sheetsService *sheets.Service
	now           func() time.Time
}

func NewGSheetExporter(ctx context.Context, config *app.Config, opts ...option.ClientOption) (*GSheetExporter, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithCredentialsFile(config.GSheet.CredentialsPath)}
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GSheetExporter{
		config:        config.GSheet,
		emojiVariants: config.Display.EmojiVariants,
		sheetsService: svc,
		now:           time.Now,
	}, nil
}

// Push overwrites the sheet starting at the configured cell with the table,
// then stamps the update time when a timestamp range is configured.
func (e *GSheetExporter) Push(ctx context.Context, t Table) error {
	updateRange := fmt.Sprintf("%s!%s", e.config.SheetName, e.config.StartCell)
	_, err := e.sheetsService.Spreadsheets.Values.Update(e.config.SheetID, updateRange,
		&sheets.ValueRange{Values: t.Values()}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", updateRange, err)
	}
	logger.Debug.Printf("Pushed %d rows to sheet %s range %s", len(t.Rows), e.config.SheetID, updateRange)

	if e.config.TimestampRange == "" {
		return nil
	}

	timestamp := fmt.Sprintf("UPD: %s", e.now().Format("2 January 15:04"))
	if len(e.emojiVariants) > 0 {
		timestamp += " " + e.emojiVariants[rand.Intn(len(e.emojiVariants))]
	}

	stampRange := fmt.Sprintf("%s!%s", e.config.SheetName, e.config.TimestampRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(e.config.SheetID, stampRange,
		&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update timestamp: %w", err)
	}

	return nil
}
