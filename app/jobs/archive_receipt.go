// Package jobs holds the background jobs run by pkg/queue.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/resource"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// ArchiveReceiptName is the queue name of ArchiveReceipt.
const ArchiveReceiptName = "archive_receipt"

// ArchiveReceipt writes a copy of a receipt to the storage disk under
// receipts/<receiptId>.json. Rerunning it overwrites the same file.
type ArchiveReceipt struct {
	Receipt models.Order `json:"receipt"`

	disk storage.Disk
}

// NewArchiveReceipt returns a job bound to disk, ready to be decoded into.
func NewArchiveReceipt(disk storage.Disk) *ArchiveReceipt {
	return &ArchiveReceipt{disk: disk}
}

func (j *ArchiveReceipt) JobName() string { return ArchiveReceiptName }

// ReceiptPath is where a receipt is archived.
func ReceiptPath(receiptID string) string {
	return "receipts/" + receiptID + ".json"
}

func (j *ArchiveReceipt) Handle(ctx context.Context) error {
	if j.disk == nil {
		return fmt.Errorf("archive receipt %s: no storage disk", j.Receipt.ReceiptID)
	}

	body, err := json.MarshalIndent(resource.One(resources.Receipt, j.Receipt), "", "  ")
	if err != nil {
		return fmt.Errorf("archive receipt %s: %w", j.Receipt.ReceiptID, err)
	}
	path := ReceiptPath(j.Receipt.ReceiptID)
	if err := j.disk.Put(ctx, path, body); err != nil {
		metrics.ReceiptsArchived.WithLabelValues("error").Inc()
		return fmt.Errorf("archive receipt %s: %w", j.Receipt.ReceiptID, err)
	}

	metrics.ReceiptsArchived.WithLabelValues("ok").Inc()
	logger.WithCtx(ctx).Info("receipt archived", "receipt_id", j.Receipt.ReceiptID, "path", path)
	return nil
}
