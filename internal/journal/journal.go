// Package journal implements the register's audit trail: an append-only
// local log that is the system of record, plus a best-effort mirror of the
// same lines to a remote collector. Remote failures never surface to the
// transaction path.
package journal

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	timeFormat  = "2006-01-02 15:04:05"
	nameMaxLen  = 30
	bannerWidth = 60
)

// Config holds the journal settings: local log path and collector connection.
type Config struct {
	Path   string
	Socket SocketConfig
}

// Journal writes audit lines locally and mirrors them to the collector.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	client *SocketClient
	logger *slog.Logger
}

var _ portssvc.AuditJournal = (*Journal)(nil)

// New opens (or creates) the local journal file in append mode and attempts
// the collector connection. A failed connection leaves the journal in
// local-only mode; only a failure to open the local file is an error.
func New(cfg Config, logger *slog.Logger) (*Journal, error) {
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file %s: %w", cfg.Path, err)
	}

	j := &Journal{
		file:   file,
		writer: bufio.NewWriter(file),
		client: NewSocketClient(cfg.Socket, logger),
		logger: logger,
	}

	if cfg.Socket.Enabled && !j.client.Connect() {
		logger.Warn("Journal collector unreachable, logging locally only")
	}

	return j, nil
}

// Connected reports whether the remote mirror is live.
func (j *Journal) Connected() bool {
	return j.client.Connected()
}

// Close flushes the local log and releases the collector connection.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var err error
	if flushErr := j.writer.Flush(); flushErr != nil {
		err = fmt.Errorf("failed to flush journal: %w", flushErr)
	}
	if closeErr := j.file.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close journal: %w", closeErr)
	}
	j.client.Close()
	return err
}

func (j *Journal) TransactionStart(transactionID int64) {
	j.writeLines(
		strings.Repeat("=", bannerWidth),
		fmt.Sprintf("TRANSACTION #%d - %s", transactionID, time.Now().Format(timeFormat)),
		strings.Repeat("=", bannerWidth),
	)
}

func (j *Journal) Item(code, name string, price decimal.Decimal) {
	j.writeLines(fmt.Sprintf("%-20s %-30s $%-8s", code, truncate(name), utils.FormatAmount(price)))
}

func (j *Journal) VoidItem(code, name string, qty int64) {
	j.writeLines(fmt.Sprintf("*** VOID ITEM: %s %s QTY: %d ***", code, name, qty))
}

func (j *Journal) QuantityChange(code, name string, oldQty, newQty int64) {
	j.writeLines(fmt.Sprintf("*** QTY CHANGE: %s %s FROM %d TO %d ***", code, name, oldQty, newQty))
}

func (j *Journal) Subtotal(subtotal decimal.Decimal) {
	j.writeLines(
		"",
		fmt.Sprintf("%50s $%s", "SUBTOTAL:", utils.FormatAmount(subtotal)),
	)
}

func (j *Journal) Discount(amount decimal.Decimal, appliedDiscounts []string) {
	if !amount.IsPositive() {
		return
	}
	lines := []string{fmt.Sprintf("%50s -$%s", "DISCOUNT:", utils.FormatAmount(amount))}
	for _, label := range appliedDiscounts {
		lines = append(lines, fmt.Sprintf("%50s   %s", "", label))
	}
	j.writeLines(lines...)
}

func (j *Journal) Tax(tax decimal.Decimal) {
	j.writeLines(fmt.Sprintf("%50s $%s", "TAX (7%):", utils.FormatAmount(tax)))
}

func (j *Journal) Total(total decimal.Decimal) {
	j.writeLines(
		fmt.Sprintf("%50s $%s", "TOTAL:", utils.FormatAmount(total)),
		strings.Repeat("-", bannerWidth),
	)
}

func (j *Journal) Payment(paymentType string, tendered, change decimal.Decimal) {
	lines := []string{
		"",
		"PAYMENT TYPE: " + paymentType,
		fmt.Sprintf("%50s $%s", "AMOUNT TENDERED:", utils.FormatAmount(tendered)),
	}
	if change.IsPositive() {
		lines = append(lines, fmt.Sprintf("%50s $%s", "CHANGE:", utils.FormatAmount(change)))
	}
	j.writeLines(lines...)
}

func (j *Journal) TransactionVoided(transactionID int64) {
	j.writeLines(
		"",
		fmt.Sprintf("*** TRANSACTION #%d VOIDED ***", transactionID),
		fmt.Sprintf("*** VOIDED AT: %s ***", time.Now().Format(timeFormat)),
		strings.Repeat("=", bannerWidth),
		"",
	)
}

func (j *Journal) TransactionSuspended(transactionID int64) {
	j.writeLines(
		"",
		fmt.Sprintf("*** TRANSACTION #%d SUSPENDED ***", transactionID),
		fmt.Sprintf("*** SUSPENDED AT: %s ***", time.Now().Format(timeFormat)),
		strings.Repeat("=", bannerWidth),
		"",
	)
}

func (j *Journal) TransactionResumed(transactionID int64) {
	j.writeLines(
		"",
		fmt.Sprintf("*** TRANSACTION #%d RESUMED ***", transactionID),
		fmt.Sprintf("*** RESUMED AT: %s ***", time.Now().Format(timeFormat)),
		strings.Repeat("=", bannerWidth),
	)
}

func (j *Journal) TransactionCompleted(transactionID int64) {
	j.writeLines(
		"",
		fmt.Sprintf("TRANSACTION #%d COMPLETED", transactionID),
		fmt.Sprintf("COMPLETED AT: %s", time.Now().Format(timeFormat)),
		strings.Repeat("=", bannerWidth),
		"",
	)
	j.flush()
}

// writeLines appends each line to the local log, then mirrors it. The local
// write happens regardless of remote connectivity.
func (j *Journal) writeLines(lines ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, line := range lines {
		if _, err := j.writer.WriteString(line + "\n"); err != nil {
			j.logger.Error("Failed to write journal line", slog.String("error", err.Error()))
		}
		if j.client.Connected() {
			j.client.Send(line)
		}
	}
}

func (j *Journal) flush() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.writer.Flush(); err != nil {
		j.logger.Error("Failed to flush journal", slog.String("error", err.Error()))
	}
}

func truncate(name string) string {
	runes := []rune(name)
	if len(runes) <= nameMaxLen {
		return name
	}
	return string(runes[:nameMaxLen-3]) + "..."
}
